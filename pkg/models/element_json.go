package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ElementList is an ordered element sequence. Its JSON projection is an
// array of flat objects tagged with a "type" member.
type ElementList []Element

// UnsupportedTypeError reports an element projection whose "type" member
// names no element kind.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported element type %q", e.Type)
}

type elementTypeTag struct {
	Type string `json:"type"`
}

// MarshalElement projects a single element to JSON.
func MarshalElement(e Element) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("cannot marshal nil element")
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s element %q: %w", e.Kind(), e.Base().ID, err)
	}
	typeField := fmt.Sprintf(`{"type":%q`, e.Kind().String())
	if bytes.Equal(body, []byte("{}")) {
		return []byte(typeField + "}"), nil
	}
	out := make([]byte, 0, len(typeField)+len(body))
	out = append(out, typeField...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

// UnmarshalElement reads an element projected by MarshalElement.
func UnmarshalElement(data []byte) (Element, error) {
	var tag elementTypeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	kind, ok := ParseElementKind(tag.Type)
	if !ok {
		return nil, &UnsupportedTypeError{Type: tag.Type}
	}
	var e Element
	if kind == ElementKindUnknown {
		e = &UnknownElement{}
	} else {
		e = NewElement(kind)
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("unmarshal %s element: %w", kind, err)
	}
	return e, nil
}

func (l ElementList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := MarshalElement(e)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (l *ElementList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ElementList, 0, len(raw))
	for i, r := range raw {
		e, err := UnmarshalElement(r)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

// Active returns the elements that are not tombstoned, in order.
func (l ElementList) Active() ElementList {
	out := make(ElementList, 0, len(l))
	for _, e := range l {
		if !e.Base().IsDeleted {
			out = append(out, e)
		}
	}
	return out
}

// Index resolves element ids. Later duplicates shadow earlier ones.
func (l ElementList) Index() map[string]Element {
	idx := make(map[string]Element, len(l))
	for _, e := range l {
		idx[e.Base().ID] = e
	}
	return idx
}

// InGroup returns the elements whose GroupIDs contain groupID.
func (l ElementList) InGroup(groupID string) ElementList {
	var out ElementList
	for _, e := range l {
		if e.Base().InGroup(groupID) {
			out = append(out, e)
		}
	}
	return out
}
