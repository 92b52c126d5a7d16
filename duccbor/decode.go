package duccbor

import (
	"bytes"

	"github.com/fxamacker/cbor/v2"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Decode reads a complete document with every file payload inlined.
func (d *Decoder) Decode(data []byte) (*models.DucFile, error) {
	return d.decode(data, true)
}

// DecodeLazy reads a complete document except for file payloads, which are
// left nil. Every other file field is decoded.
func (d *Decoder) DecodeLazy(data []byte) (*models.DucFile, error) {
	return d.decode(data, false)
}

// body checks the magic marker and returns the root item bytes.
func (d *Decoder) body(data []byte) ([]byte, error) {
	magic := constants.Magic[:]
	if len(data) < len(magic) {
		return nil, formatError(0, "buffer shorter than magic marker", nil)
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return nil, formatError(0, "magic marker mismatch", nil)
	}
	return data[len(magic):], nil
}

// wellformedBody is body plus a structural check of the whole root item,
// for callers that read the buffer with the scanner only.
func (d *Decoder) wellformedBody(data []byte) ([]byte, error) {
	body, err := d.body(data)
	if err != nil {
		return nil, err
	}
	if err := d.dm.Wellformed(body); err != nil {
		return nil, formatError(len(constants.Magic), "malformed root table", err)
	}
	return body, nil
}

func (d *Decoder) decode(data []byte, withData bool) (*models.DucFile, error) {
	body, err := d.body(data)
	if err != nil {
		return nil, err
	}

	var root wireRoot
	if err := d.dm.Unmarshal(body, &root); err != nil {
		return nil, formatError(len(constants.Magic), "malformed root table", err)
	}
	if root.Version == nil {
		return nil, formatError(len(constants.Magic), "missing version string", nil)
	}

	files, err := d.readFiles(body, withData)
	if err != nil {
		return nil, err
	}

	doc := &models.DucFile{
		Type:         root.Type,
		Version:      *root.Version,
		Source:       root.Source,
		Elements:     d.decodeElements(root.Elements, "document"),
		AppState:     appStateFromWire(root.AppState),
		Files:        files,
		Blocks:       d.decodeBlocks(root.Blocks),
		Groups:       groupsFromWire(decodeEntries[wireGroup](d, root.Groups, "group")),
		Layers:       layersFromWire(decodeEntries[wireLayer](d, root.Layers, "layer")),
		Regions:      regionsFromWire(decodeEntries[wireRegion](d, root.Regions, "region")),
		Dictionary:   d.decodeDictionary(root.Dictionary),
		VersionGraph: versionGraphFromWire(root.VersionGraph),
	}
	if root.RendererState != nil {
		doc.RendererState = &models.RendererState{DeletedElementIDs: root.RendererState.DeletedElementIDs}
	}
	doc.Normalize()
	return doc, nil
}

func (d *Decoder) decodeBlocks(raws []cbor.RawMessage) []models.DucBlock {
	out := make([]models.DucBlock, 0, len(raws))
	for i, raw := range raws {
		var w wireBlock
		if err := d.dm.Unmarshal(raw, &w); err != nil {
			d.log.Warn().Int("index", i).Err(err).Msg("skipping malformed block")
			continue
		}
		block := models.DucBlock{
			ID:          w.ID,
			Label:       w.Label,
			Description: w.Description,
			Version:     w.Version,
			Elements:    d.decodeElements(w.Elements, "block "+w.ID),
		}
		if w.AttributeDefinitions != nil {
			block.AttributeDefinitions = make([]models.AttributeDefinition, len(w.AttributeDefinitions))
			for j, def := range w.AttributeDefinitions {
				block.AttributeDefinitions[j] = models.AttributeDefinition(def)
			}
		}
		out = append(out, block)
	}
	return out
}

// decodeEntries decodes each entry of a list on its own. An entry that does
// not decode is logged and skipped.
func decodeEntries[T any](d *Decoder, raws []cbor.RawMessage, what string) []T {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var w T
		if err := d.dm.Unmarshal(raw, &w); err != nil {
			d.log.Warn().Int("index", i).Err(err).Msgf("skipping malformed %s", what)
			continue
		}
		out = append(out, w)
	}
	return out
}

func (d *Decoder) decodeDictionary(raws []cbor.RawMessage) map[string]string {
	out := make(map[string]string, len(raws))
	for i, raw := range raws {
		var entry wireStringEntry
		if err := d.dm.Unmarshal(raw, &entry); err != nil {
			d.log.Warn().Int("index", i).Err(err).Msg("skipping malformed dictionary entry")
			continue
		}
		out[entry.Key] = entry.Value
	}
	return out
}

// Decode reads a complete document with the default decoder.
func Decode(data []byte) (*models.DucFile, error) {
	return defaultDecoder.Decode(data)
}

// Parse is the eager parse: every file payload is inlined.
func Parse(data []byte) (*models.DucFile, error) {
	return defaultDecoder.Decode(data)
}

// ParseLazy parses the document structure and elides file payloads.
func ParseLazy(data []byte) (*models.DucFile, error) {
	return defaultDecoder.DecodeLazy(data)
}

// GetExternalFile looks up one file entry with the default decoder.
func GetExternalFile(data []byte, id string) (*models.BinaryFileData, bool, error) {
	return defaultDecoder.GetExternalFile(data, id)
}

// ListExternalFiles lists file metadata with the default decoder.
func ListExternalFiles(data []byte) ([]models.FileMetadata, error) {
	return defaultDecoder.ListExternalFiles(data)
}
