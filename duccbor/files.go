package duccbor

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// fileRecord is one file entry as read by the scanner. chunks are views
// into the input buffer.
type fileRecord struct {
	file    models.BinaryFileData
	chunks  [][]byte
	size    int64
	hasData bool
}

func (r *fileRecord) metadata() models.FileMetadata {
	return models.FileMetadata{
		ID:            r.file.ID,
		MimeType:      r.file.MimeType,
		Created:       r.file.Created,
		LastRetrieved: r.file.LastRetrieved,
		Size:          r.size,
		HasData:       r.hasData,
	}
}

// materialize returns an owned copy of the entry. The payload is copied
// only when withData is set.
func (r *fileRecord) materialize(withData bool) *models.BinaryFileData {
	f := r.file
	if r.file.LastRetrieved != nil {
		v := *r.file.LastRetrieved
		f.LastRetrieved = &v
	}
	if withData && r.hasData {
		f.Data = make([]byte, 0, r.size)
		for _, c := range r.chunks {
			f.Data = append(f.Data, c...)
		}
	}
	return &f
}

// readFileEntry reads one file entry table. Unknown slots are skipped.
func (s *scanner) readFileEntry() (*fileRecord, error) {
	count, err := s.container(majorMap)
	if err != nil {
		return nil, err
	}

	rec := &fileRecord{}
	hasID := false
	for i := 0; ; i++ {
		more, err := s.more(count, i)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		major, err := s.peekMajor()
		if err != nil {
			return nil, err
		}
		if major != majorUint {
			if err := s.skip(); err != nil {
				return nil, err
			}
			if err := s.skip(); err != nil {
				return nil, err
			}
			continue
		}
		slot, err := s.readUint()
		if err != nil {
			return nil, err
		}

		switch slot {
		case fileSlotID:
			rec.file.ID, err = s.readText()
			hasID = err == nil
		case fileSlotMimeType:
			rec.file.MimeType, err = s.readText()
		case fileSlotCreated:
			rec.file.Created, err = s.readInt()
		case fileSlotLastRetrieved:
			if !s.readNull() {
				var v int64
				v, err = s.readInt()
				rec.file.LastRetrieved = &v
			}
		case fileSlotData:
			if s.readNull() {
				rec.chunks, rec.size, rec.hasData = nil, 0, false
				break
			}
			rec.chunks, err = s.readStringChunks(majorBytes)
			rec.size = 0
			for _, c := range rec.chunks {
				rec.size += int64(len(c))
			}
			rec.hasData = err == nil
		case fileSlotStatus:
			var v uint64
			v, err = s.readUint()
			if err == nil && v > 0xff {
				err = fmt.Errorf("status %d out of range", v)
			}
			rec.file.Status = models.BinaryFileStatus(v)
		case fileSlotSavedToFileSystem:
			rec.file.SavedToFileSystem, err = s.readBool()
		case fileSlotHasSyncedToServer:
			rec.file.HasSyncedToServer, err = s.readBool()
		default:
			err = s.skip()
		}
		if err != nil {
			return nil, fmt.Errorf("file slot %d: %w", slot, err)
		}
	}
	if !hasID {
		return nil, fmt.Errorf("file entry has no id")
	}
	return rec, nil
}

// walkFiles visits every readable file entry of the root table in wire
// order. Entries that are delimited but malformed are logged and skipped;
// an entry list whose extent cannot be determined fails the walk.
func (d *Decoder) walkFiles(body []byte, visit func(rec *fileRecord)) error {
	offset := len(constants.Magic)
	s := newScanner(body, d.limits.MaxByteStringLength)

	count, err := s.container(majorMap)
	if err != nil {
		return formatError(offset+s.pos, "root is not a table", err)
	}
	for i := 0; ; i++ {
		more, err := s.more(count, i)
		if err != nil {
			return formatError(offset+s.pos, "truncated root table", err)
		}
		if !more {
			return nil
		}

		major, err := s.peekMajor()
		if err != nil {
			return formatError(offset+s.pos, "truncated root table", err)
		}
		isFiles := false
		if major == majorUint {
			slot, err := s.readUint()
			if err != nil {
				return formatError(offset+s.pos, "unreadable root slot", err)
			}
			isFiles = slot == rootSlotFiles
		} else if err := s.skip(); err != nil {
			return formatError(offset+s.pos, "unreadable root slot", err)
		}

		if !isFiles {
			if err := s.skip(); err != nil {
				return formatError(offset+s.pos, "unreadable root value", err)
			}
			continue
		}
		if err := d.walkFileList(s, offset, visit); err != nil {
			return err
		}
	}
}

func (d *Decoder) walkFileList(s *scanner, offset int, visit func(rec *fileRecord)) error {
	if s.readNull() {
		return nil
	}
	count, err := s.container(majorArray)
	if err != nil {
		return formatError(offset+s.pos, "file list is not an array", err)
	}
	for i := 0; ; i++ {
		more, err := s.more(count, i)
		if err != nil {
			return formatError(offset+s.pos, "truncated file list", err)
		}
		if !more {
			return nil
		}

		start := s.pos
		if err := s.skip(); err != nil {
			return formatError(offset+start, "file entry cannot be delimited", err)
		}
		entry := newScanner(s.data[start:s.pos], d.limits.MaxByteStringLength)
		rec, err := entry.readFileEntry()
		if err == nil && entry.pos != len(entry.data) {
			err = fmt.Errorf("trailing bytes in file entry")
		}
		if err != nil {
			d.log.Warn().Int("index", i).Int("offset", offset+start).Err(err).Msg("skipping malformed file entry")
			continue
		}
		visit(rec)
	}
}

// readFiles collects the file map. Later entries with a repeated id replace
// the earlier value and keep its position.
func (d *Decoder) readFiles(body []byte, withData bool) (*models.FileMap, error) {
	files := models.NewFileMap()
	err := d.walkFiles(body, func(rec *fileRecord) {
		files.Set(rec.file.ID, rec.materialize(withData))
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// GetExternalFile looks up one file entry by id without decoding the rest
// of the document. A missing id is reported through ok, not as an error.
func (d *Decoder) GetExternalFile(data []byte, id string) (file *models.BinaryFileData, ok bool, err error) {
	body, err := d.wellformedBody(data)
	if err != nil {
		return nil, false, err
	}

	var match *fileRecord
	err = d.walkFiles(body, func(rec *fileRecord) {
		if rec.file.ID == id {
			match = rec
		}
	})
	if err != nil {
		return nil, false, err
	}
	if match == nil {
		return nil, false, nil
	}
	return match.materialize(true), true, nil
}

// ListExternalFiles returns the metadata of every file entry in file map
// order. No payload is copied.
func (d *Decoder) ListExternalFiles(data []byte) ([]models.FileMetadata, error) {
	body, err := d.wellformedBody(data)
	if err != nil {
		return nil, err
	}

	listing := orderedmap.New[string, models.FileMetadata]()
	err = d.walkFiles(body, func(rec *fileRecord) {
		listing.Set(rec.file.ID, rec.metadata())
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.FileMetadata, 0, listing.Len())
	for pair := listing.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out, nil
}
