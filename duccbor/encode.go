package duccbor

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Encode writes doc as magic marker plus root table. Nested tables are
// encoded before the table that embeds them. An empty Version is written
// as constants.FormatVersion.
func (e *Encoder) Encode(doc *models.DucFile) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot encode nil document")
	}

	elements, err := e.encodeElements(doc.Elements)
	if err != nil {
		return nil, err
	}
	files, err := e.encodeFiles(doc.Files)
	if err != nil {
		return nil, err
	}
	blocks, err := e.encodeBlocks(doc.Blocks)
	if err != nil {
		return nil, err
	}
	dictionary, err := e.encodeDictionary(doc.Dictionary)
	if err != nil {
		return nil, err
	}
	groups, err := encodeEntries(e.em, "group", groupsToWire(doc.Groups))
	if err != nil {
		return nil, err
	}
	layers, err := encodeEntries(e.em, "layer", layersToWire(doc.Layers))
	if err != nil {
		return nil, err
	}
	regions, err := encodeEntries(e.em, "region", regionsToWire(doc.Regions))
	if err != nil {
		return nil, err
	}

	version := doc.Version
	if version == "" {
		version = constants.FormatVersion
	}
	root := wireRoot{
		Type:         doc.Type,
		Version:      &version,
		Source:       doc.Source,
		Elements:     elements,
		AppState:     appStateToWire(doc.AppState),
		Files:        files,
		Blocks:       blocks,
		Groups:       groups,
		Layers:       layers,
		Regions:      regions,
		Dictionary:   dictionary,
		VersionGraph: versionGraphToWire(doc.VersionGraph),
	}
	if doc.RendererState != nil {
		root.RendererState = &wireRendererState{DeletedElementIDs: doc.RendererState.DeletedElementIDs}
	}

	body, err := e.em.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encode root table: %w", err)
	}
	out := make([]byte, 0, len(constants.Magic)+len(body))
	out = append(out, constants.Magic[:]...)
	return append(out, body...), nil
}

// encodeFiles writes the file map as an entry list in insertion order. The
// map key is authoritative for the entry id.
func (e *Encoder) encodeFiles(files *models.FileMap) (fileEntries, error) {
	if files == nil || files.Len() == 0 {
		return nil, nil
	}
	out := make(fileEntries, 0, files.Len())
	for pair := files.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			return nil, fmt.Errorf("file %q has no entry", pair.Key)
		}
		w := fileToWire(pair.Value)
		w.ID = pair.Key
		raw, err := e.em.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("encode file %q: %w", pair.Key, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func (e *Encoder) encodeBlocks(blocks []models.DucBlock) ([]cbor.RawMessage, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	out := make([]cbor.RawMessage, len(blocks))
	for i, b := range blocks {
		elements, err := e.encodeElements(b.Elements)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.ID, err)
		}
		w := wireBlock{
			ID:          b.ID,
			Label:       b.Label,
			Description: b.Description,
			Version:     b.Version,
			Elements:    elements,
		}
		if b.AttributeDefinitions != nil {
			w.AttributeDefinitions = make([]wireAttributeDefinition, len(b.AttributeDefinitions))
			for j, def := range b.AttributeDefinitions {
				w.AttributeDefinitions[j] = wireAttributeDefinition(def)
			}
		}
		if out[i], err = e.em.Marshal(w); err != nil {
			return nil, fmt.Errorf("block %q: %w", b.ID, err)
		}
	}
	return out, nil
}

// encodeEntries writes each table of a list as its own entry, so a reader
// can drop one malformed entry and keep the rest.
func encodeEntries[T any](em cbor.EncMode, what string, in []T) ([]cbor.RawMessage, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]cbor.RawMessage, len(in))
	for i, w := range in {
		raw, err := em.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", what, i, err)
		}
		out[i] = raw
	}
	return out, nil
}

// encodeDictionary writes entries sorted by key so equal dictionaries
// encode to equal bytes.
func (e *Encoder) encodeDictionary(dict map[string]string) ([]cbor.RawMessage, error) {
	if len(dict) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]cbor.RawMessage, len(keys))
	for i, k := range keys {
		raw, err := e.em.Marshal(wireStringEntry{Key: k, Value: dict[k]})
		if err != nil {
			return nil, fmt.Errorf("dictionary entry %q: %w", k, err)
		}
		out[i] = raw
	}
	return out, nil
}

// Encode writes doc with the default encoder.
func Encode(doc *models.DucFile) ([]byte, error) {
	return defaultEncoder.Encode(doc)
}

// Serialize is Encode under the name used by the binding layer.
func Serialize(doc *models.DucFile) ([]byte, error) {
	return defaultEncoder.Encode(doc)
}
