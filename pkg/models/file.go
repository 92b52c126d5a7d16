package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// BinaryFileStatus records how a file payload was obtained.
type BinaryFileStatus uint8

const (
	BinaryFileStatusPending BinaryFileStatus = iota
	BinaryFileStatusSaved
	BinaryFileStatusError
)

// BinaryFileData is an attachment addressed by its content handle ID.
//
// Data is nil for lazily parsed documents. Pending and ObjectURL describe
// the in-process state of a payload and are never written to the wire.
type BinaryFileData struct {
	ID                string           `json:"id"`
	MimeType          string           `json:"mimeType"`
	Created           int64            `json:"created"`
	LastRetrieved     *int64           `json:"lastRetrieved,omitempty"`
	Data              []byte           `json:"data,omitempty"`
	Status            BinaryFileStatus `json:"status"`
	SavedToFileSystem bool             `json:"savedToFileSystem"`
	HasSyncedToServer bool             `json:"hasSyncedToServer"`

	Pending   bool   `json:"-"`
	ObjectURL string `json:"-"`
}

// Metadata returns the payload-free listing record of f.
func (f *BinaryFileData) Metadata() FileMetadata {
	return FileMetadata{
		ID:            f.ID,
		MimeType:      f.MimeType,
		Created:       f.Created,
		LastRetrieved: f.LastRetrieved,
		Size:          int64(len(f.Data)),
		HasData:       f.Data != nil,
	}
}

// FileMetadata describes a file entry without its payload. Size is the
// payload length on the wire.
type FileMetadata struct {
	ID            string `json:"id"`
	MimeType      string `json:"mimeType"`
	Created       int64  `json:"created"`
	LastRetrieved *int64 `json:"lastRetrieved,omitempty"`
	Size          int64  `json:"size"`
	HasData       bool   `json:"hasData"`
}

// FileMap maps file ids to attachments in insertion order.
type FileMap = orderedmap.OrderedMap[string, *BinaryFileData]

func NewFileMap() *FileMap {
	return orderedmap.New[string, *BinaryFileData]()
}

// FileIDs lists the keys of m in insertion order.
func FileIDs(m *FileMap) []string {
	if m == nil {
		return nil
	}
	ids := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}
