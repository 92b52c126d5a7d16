package duc

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/history"
	"github.com/ducflair/duc-sub001/pkg/logger"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Parse decodes a complete document.
func Parse(data []byte) (*models.DucFile, error) {
	return duccbor.Parse(data)
}

// ParseLazy decodes a document without file payloads.
func ParseLazy(data []byte) (*models.DucFile, error) {
	return duccbor.ParseLazy(data)
}

// Serialize encodes doc.
func Serialize(doc *models.DucFile) ([]byte, error) {
	return duccbor.Serialize(doc)
}

// GetExternalFile returns the attachment stored under id. A missing id is
// reported with ok == false and a nil error.
func GetExternalFile(data []byte, id string) (file *models.BinaryFileData, ok bool, err error) {
	return duccbor.GetExternalFile(data, id)
}

// ListExternalFiles returns the metadata of every attachment in order.
func ListExternalFiles(data []byte) ([]models.FileMetadata, error) {
	return duccbor.ListExternalFiles(data)
}

type Option func(f *File) error

// WithLogger sets the logger decode recoveries are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(f *File) error {
		f.log = l
		return nil
	}
}

// WithLimits replaces the default decode limits.
func WithLimits(limits duccbor.Limits) Option {
	return func(f *File) error {
		f.limits = &limits
		return nil
	}
}

// WithMaxHops caps history walks.
func WithMaxHops(n int) Option {
	return func(f *File) error {
		if n <= 0 {
			return fmt.Errorf("max hops must be positive, got %d", n)
		}
		f.maxHops = n
		return nil
	}
}

// File is an encoded document that has been checked once. It never
// modifies the buffer and is safe for concurrent use.
type File struct {
	data    []byte
	dec     *duccbor.Decoder
	log     zerolog.Logger
	limits  *duccbor.Limits
	maxHops int

	structureOnce sync.Once
	structure     *models.DucFile
	structureErr  error
}

// Open checks that data is a duc document and wraps it. data must not be
// modified while the File is in use.
func Open(data []byte, opts ...Option) (*File, error) {
	f := &File{data: data, log: logger.Nop()}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	decOpts := []duccbor.Option{duccbor.WithLogger(f.log)}
	if f.limits != nil {
		decOpts = append(decOpts, duccbor.WithLimits(*f.limits))
	}
	dec, err := duccbor.NewDecoder(decOpts...)
	if err != nil {
		return nil, err
	}
	f.dec = dec

	if _, err := f.Structure(); err != nil {
		return nil, err
	}
	return f, nil
}

// Bytes returns the wrapped buffer.
func (f *File) Bytes() []byte {
	return f.data
}

// Document decodes the complete document. Each call returns a fresh copy.
func (f *File) Document() (*models.DucFile, error) {
	return f.dec.Decode(f.data)
}

// Structure returns the document without file payloads. The result is
// decoded once and shared between callers, who must not modify it.
func (f *File) Structure() (*models.DucFile, error) {
	f.structureOnce.Do(func() {
		f.structure, f.structureErr = f.dec.DecodeLazy(f.data)
	})
	return f.structure, f.structureErr
}

// ExternalFile returns one attachment with its payload.
func (f *File) ExternalFile(id string) (*models.BinaryFileData, bool, error) {
	return f.dec.GetExternalFile(f.data, id)
}

// ExternalFiles lists attachment metadata.
func (f *File) ExternalFiles() ([]models.FileMetadata, error) {
	return f.dec.ListExternalFiles(f.data)
}

// History returns the version graph of the document, or nil.
func (f *File) History() *models.VersionGraph {
	doc, err := f.Structure()
	if err != nil {
		return nil
	}
	return doc.VersionGraph
}

// Version materializes a recorded version of the document.
func (f *File) Version(versionID string) (*models.DucFile, error) {
	opts := []history.Option{history.WithDecoder(f.dec), history.WithLogger(f.log)}
	if f.maxHops > 0 {
		opts = append(opts, history.WithMaxHops(f.maxHops))
	}
	return history.Reconstruct(f.History(), versionID, opts...)
}
