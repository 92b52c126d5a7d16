package duccbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/ducflair/duc-sub001/pkg/logger"
)

// Limits bound the work done on untrusted input.
type Limits struct {
	MaxNestedLevels     int
	MaxArrayElements    int
	MaxMapPairs         int
	MaxByteStringLength uint64
}

// DefaultLimits are the limits used by the package level functions.
func DefaultLimits() Limits {
	return Limits{
		MaxNestedLevels:     32,
		MaxArrayElements:    1 << 20,
		MaxMapPairs:         1 << 16,
		MaxByteStringLength: 256 << 20,
	}
}

type Option func(d *Decoder) error

// WithLogger sets the logger entry-level recoveries are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) error {
		d.log = l
		return nil
	}
}

// WithLimits replaces the default decode limits.
func WithLimits(limits Limits) Option {
	return func(d *Decoder) error {
		if limits.MaxByteStringLength == 0 {
			return fmt.Errorf("max byte string length must be positive")
		}
		d.limits = limits
		return nil
	}
}

// Decoder decodes duc documents. It holds no per-call state and is safe for
// concurrent use.
type Decoder struct {
	dm     cbor.DecMode
	limits Limits
	log    zerolog.Logger
}

func NewDecoder(opts ...Option) (*Decoder, error) {
	d := &Decoder{
		limits: DefaultLimits(),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	dm, err := cbor.DecOptions{
		MaxNestedLevels:  d.limits.MaxNestedLevels,
		MaxArrayElements: d.limits.MaxArrayElements,
		MaxMapPairs:      d.limits.MaxMapPairs,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthAllowed,
		UTF8:             cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("invalid decode limits: %w", err)
	}
	d.dm = dm
	return d, nil
}

// Encoder encodes duc documents. It is safe for concurrent use.
type Encoder struct {
	em cbor.EncMode
	// sorted writes map keys in ascending order, for tables rebuilt from
	// slot maps.
	sorted cbor.EncMode
}

// NewEncoder returns an encoder that writes every float at its declared
// width.
func NewEncoder() *Encoder {
	opts := cbor.EncOptions{
		ShortestFloat: cbor.ShortestFloatNone,
		NaNConvert:    cbor.NaNConvertNone,
		InfConvert:    cbor.InfConvertNone,
		NilContainers: cbor.NilContainerAsNull,
	}
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	opts.Sort = cbor.SortCoreDeterministic
	sorted, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return &Encoder{em: em, sorted: sorted}
}

var (
	defaultDecoder = mustDecoder()
	defaultEncoder = NewEncoder()
)

func mustDecoder() *Decoder {
	d, err := NewDecoder()
	if err != nil {
		panic(err)
	}
	return d
}
