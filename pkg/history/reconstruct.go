package history

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/rs/zerolog"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/logger"
	"github.com/ducflair/duc-sub001/pkg/models"
)

type options struct {
	maxHops int
	decoder *duccbor.Decoder
	encoder *duccbor.Encoder
	log     zerolog.Logger
}

type Option func(o *options)

// WithMaxHops caps the number of deltas walked before a checkpoint must be
// reached.
func WithMaxHops(n int) Option {
	return func(o *options) {
		o.maxHops = n
	}
}

// WithDecoder sets the decoder used for checkpoint snapshots.
func WithDecoder(d *duccbor.Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		maxHops: constants.DefaultMaxDeltaHops,
		encoder: duccbor.NewEncoder(),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.decoder == nil {
		o.decoder, _ = duccbor.NewDecoder(duccbor.WithLogger(o.log))
	}
	return o
}

// Reconstruct materializes versionID: the nearest checkpoint snapshot is
// decoded and every delta between it and the target is applied in order.
func Reconstruct(g *models.VersionGraph, versionID string, opts ...Option) (*models.DucFile, error) {
	o := newOptions(opts)

	chain, err := ResolveChain(g, versionID, o.maxHops)
	if err != nil {
		return nil, err
	}

	doc, err := o.decoder.Decode(chain.Checkpoint.Data)
	if err != nil {
		return nil, historyError(versionID, constants.ErrBrokenHistoryChain,
			fmt.Sprintf("checkpoint %q snapshot", chain.Checkpoint.ID), err)
	}
	if len(chain.Deltas) == 0 {
		return doc, nil
	}

	o.log.Debug().
		Str("version", versionID).
		Str("checkpoint", chain.Checkpoint.ID).
		Int("deltas", len(chain.Deltas)).
		Msg("reconstructing version")

	current, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("project checkpoint %q: %w", chain.Checkpoint.ID, err)
	}
	for _, d := range chain.Deltas {
		current, err = applyPatch(current, d.Patch)
		if err != nil {
			return nil, historyError(d.ID, constants.ErrPatchFailed, "", err)
		}
	}

	var patched models.DucFile
	if err := json.Unmarshal(current, &patched); err != nil {
		return nil, historyError(versionID, constants.ErrPatchFailed, "patched document", err)
	}
	// The codec round trip restores the canonical in-memory form.
	data, err := o.encoder.Encode(&patched)
	if err != nil {
		return nil, historyError(versionID, constants.ErrPatchFailed, "encode patched document", err)
	}
	return o.decoder.Decode(data)
}

// ApplyPatch applies ops to the JSON projection of doc and returns the
// resulting document. doc is not modified.
func ApplyPatch(doc *models.DucFile, ops []models.PatchOperation) (*models.DucFile, error) {
	source, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	patched, err := applyPatch(source, ops)
	if err != nil {
		return nil, err
	}
	out := new(models.DucFile)
	if err := json.Unmarshal(patched, out); err != nil {
		return nil, fmt.Errorf("patched document: %w", err)
	}
	out.Normalize()
	return out, nil
}

func applyPatch(doc []byte, ops []models.PatchOperation) ([]byte, error) {
	if len(ops) == 0 {
		return doc, nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return patch.Apply(doc)
}
