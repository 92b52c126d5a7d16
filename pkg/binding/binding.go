// Package binding exposes the codec through JSON in and JSON out functions
// for foreign callers. Every failure is reported as *Error; a missing file
// is an empty result.
package binding

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

const (
	msgDecode  = "document could not be decoded"
	msgEncode  = "document could not be encoded"
	msgProject = "document could not be projected to JSON"
)

// Error is a plain message error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// fail reports err in terms of the document. Messages never carry Go type
// names; what is used when err says nothing a caller can act on.
func fail(err error, what string) *Error {
	var (
		formatErr  *duccbor.FormatError
		marshalErr *json.MarshalerError
		syntaxErr  *json.SyntaxError
		kindErr    *models.UnsupportedTypeError
		typeErr    *json.UnmarshalTypeError
		valueErr   *json.UnsupportedValueError
	)
	switch {
	case errors.As(err, &formatErr):
		return &Error{Message: fmt.Sprintf("%s at offset %d: %s", constants.ErrInvalidFormat, formatErr.Offset, formatErr.Reason)}
	case errors.As(err, &marshalErr):
		return &Error{Message: what}
	case errors.As(err, &syntaxErr):
		return &Error{Message: fmt.Sprintf("invalid document JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &kindErr):
		return &Error{Message: "invalid document JSON: " + kindErr.Error()}
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return &Error{Message: fmt.Sprintf("invalid document JSON: field %q cannot hold a %s", typeErr.Field, typeErr.Value)}
		}
		return &Error{Message: fmt.Sprintf("invalid document JSON at offset %d: unexpected %s", typeErr.Offset, typeErr.Value)}
	case errors.As(err, &valueErr):
		return &Error{Message: "document holds a value JSON cannot represent: " + valueErr.Str}
	}
	return &Error{Message: what}
}

func marshal(v any) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fail(err, msgProject)
	}
	return out, nil
}

// ParseJSON decodes a duc buffer to its JSON projection.
func ParseJSON(data []byte) ([]byte, error) {
	doc, err := duccbor.Parse(data)
	if err != nil {
		return nil, fail(err, msgDecode)
	}
	return marshal(doc)
}

// ParseLazyJSON is ParseJSON without file payloads.
func ParseLazyJSON(data []byte) ([]byte, error) {
	doc, err := duccbor.ParseLazy(data)
	if err != nil {
		return nil, fail(err, msgDecode)
	}
	return marshal(doc)
}

// SerializeJSON encodes the JSON projection of a document to a duc buffer.
func SerializeJSON(docJSON []byte) ([]byte, error) {
	var doc models.DucFile
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fail(err, "invalid document JSON")
	}
	out, err := duccbor.Serialize(&doc)
	if err != nil {
		return nil, fail(err, msgEncode)
	}
	return out, nil
}

// GetExternalFileJSON returns the file stored under id, or nil when there
// is none.
func GetExternalFileJSON(data []byte, id string) ([]byte, error) {
	file, ok, err := duccbor.GetExternalFile(data, id)
	if err != nil {
		return nil, fail(err, msgDecode)
	}
	if !ok {
		return nil, nil
	}
	return marshal(file)
}

// ListExternalFilesJSON returns the metadata of every file as a JSON array.
func ListExternalFilesJSON(data []byte) ([]byte, error) {
	files, err := duccbor.ListExternalFiles(data)
	if err != nil {
		return nil, fail(err, msgDecode)
	}
	if files == nil {
		files = []models.FileMetadata{}
	}
	return marshal(files)
}
