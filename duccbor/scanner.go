package duccbor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// CBOR major types.
const (
	majorUint   = 0
	majorNegInt = 1
	majorBytes  = 2
	majorText   = 3
	majorArray  = 4
	majorMap    = 5
	majorTag    = 6
	majorSimple = 7
)

const (
	simpleFalse = 20
	simpleTrue  = 21
	simpleNull  = 22
	breakCode   = 0xff
	indefinite  = 31
)

// scanner walks a CBOR buffer item by item without building values. It is
// used where the table decoder would copy more than the caller needs.
type scanner struct {
	data          []byte
	pos           int
	maxByteString uint64
}

func newScanner(data []byte, maxByteString uint64) *scanner {
	return &scanner{data: data, maxByteString: maxByteString}
}

// peekMajor returns the major type of the next item.
func (s *scanner) peekMajor() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.ErrUnexpectedEOF
	}
	return s.data[s.pos] >> 5, nil
}

func (s *scanner) atBreak() bool {
	return s.pos < len(s.data) && s.data[s.pos] == breakCode
}

// readHead consumes an item head. For indefinite-length items arg is zero
// and indef is true.
func (s *scanner) readHead() (major byte, arg uint64, indef bool, err error) {
	if s.pos >= len(s.data) {
		return 0, 0, false, io.ErrUnexpectedEOF
	}
	major = s.data[s.pos] >> 5
	info := s.data[s.pos] & 0x1f
	s.pos++

	if info < 24 {
		return major, uint64(info), false, nil
	}

	var size int
	switch info {
	case 24:
		size = 1
	case 25:
		size = 2
	case 26:
		size = 4
	case 27:
		size = 8
	case indefinite:
		switch major {
		case majorBytes, majorText, majorArray, majorMap:
			return major, 0, true, nil
		}
		return 0, 0, false, fmt.Errorf("indefinite length not allowed for major type %d", major)
	default:
		return 0, 0, false, fmt.Errorf("invalid additional info %d for major type %d", info, major)
	}

	if len(s.data)-s.pos < size {
		return 0, 0, false, io.ErrUnexpectedEOF
	}
	b := s.data[s.pos : s.pos+size]
	s.pos += size
	switch size {
	case 1:
		arg = uint64(b[0])
	case 2:
		arg = uint64(binary.BigEndian.Uint16(b))
	case 4:
		arg = uint64(binary.BigEndian.Uint32(b))
	default:
		arg = binary.BigEndian.Uint64(b)
	}
	return major, arg, false, nil
}

// readLength bounds a string length by the remaining buffer and the
// configured maximum.
func (s *scanner) readLength(arg uint64) (int, error) {
	if arg > s.maxByteString {
		return 0, fmt.Errorf("string length %d exceeds maximum allowed (%d)", arg, s.maxByteString)
	}
	if arg > uint64(len(s.data)-s.pos) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(arg), nil // #nosec G115 - bounded by len(s.data)
}

// readUint reads an unsigned integer item.
func (s *scanner) readUint() (uint64, error) {
	major, arg, _, err := s.readHead()
	if err != nil {
		return 0, err
	}
	if major != majorUint {
		return 0, fmt.Errorf("expected unsigned integer, got major type %d", major)
	}
	return arg, nil
}

// readInt reads a signed integer item that fits int64.
func (s *scanner) readInt() (int64, error) {
	major, arg, _, err := s.readHead()
	if err != nil {
		return 0, err
	}
	switch major {
	case majorUint:
		if arg > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows int64", arg)
		}
		return int64(arg), nil
	case majorNegInt:
		if arg > math.MaxInt64 {
			return 0, fmt.Errorf("integer -1-%d overflows int64", arg)
		}
		return -1 - int64(arg), nil
	default:
		return 0, fmt.Errorf("expected integer, got major type %d", major)
	}
}

func (s *scanner) readBool() (bool, error) {
	if s.pos >= len(s.data) {
		return false, io.ErrUnexpectedEOF
	}
	switch s.data[s.pos] {
	case majorSimple<<5 | simpleFalse:
		s.pos++
		return false, nil
	case majorSimple<<5 | simpleTrue:
		s.pos++
		return true, nil
	default:
		return false, fmt.Errorf("expected boolean, got initial byte 0x%02x", s.data[s.pos])
	}
}

// readNull consumes a null item if one is next.
func (s *scanner) readNull() bool {
	if s.pos < len(s.data) && s.data[s.pos] == majorSimple<<5|simpleNull {
		s.pos++
		return true
	}
	return false
}

// readText reads a text string, definite or chunked.
func (s *scanner) readText() (string, error) {
	chunks, err := s.readStringChunks(majorText)
	if err != nil {
		return "", err
	}
	if len(chunks) == 1 {
		return string(chunks[0]), nil
	}
	var size int
	for _, c := range chunks {
		size += len(c)
	}
	buf := make([]byte, 0, size)
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return string(buf), nil
}

// readStringChunks returns views into the buffer for every chunk of a byte
// or text string. Nothing is copied.
func (s *scanner) readStringChunks(want byte) ([][]byte, error) {
	major, arg, indef, err := s.readHead()
	if err != nil {
		return nil, err
	}
	if major != want {
		return nil, fmt.Errorf("expected major type %d, got %d", want, major)
	}
	if !indef {
		n, err := s.readLength(arg)
		if err != nil {
			return nil, err
		}
		chunk := s.data[s.pos : s.pos+n]
		s.pos += n
		return [][]byte{chunk}, nil
	}

	var (
		chunks [][]byte
		total  uint64
	)
	for {
		if s.pos >= len(s.data) {
			return nil, io.ErrUnexpectedEOF
		}
		if s.atBreak() {
			s.pos++
			return chunks, nil
		}
		major, arg, indef, err := s.readHead()
		if err != nil {
			return nil, err
		}
		if major != want || indef {
			return nil, fmt.Errorf("invalid chunk in indefinite-length string")
		}
		total += arg
		if total > s.maxByteString {
			return nil, fmt.Errorf("string length %d exceeds maximum allowed (%d)", total, s.maxByteString)
		}
		n, err := s.readLength(arg)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, s.data[s.pos:s.pos+n])
		s.pos += n
	}
}

// skip advances past one complete item.
func (s *scanner) skip() error {
	major, arg, indef, err := s.readHead()
	if err != nil {
		return err
	}

	switch major {
	case majorUint, majorNegInt:
		return nil
	case majorBytes, majorText:
		if indef {
			s.pos--
			_, err := s.readStringChunks(major)
			return err
		}
		n, err := s.readLength(arg)
		if err != nil {
			return err
		}
		s.pos += n
		return nil
	case majorArray, majorMap:
		perEntry := 1
		if major == majorMap {
			perEntry = 2
		}
		if indef {
			for !s.atBreak() {
				if s.pos >= len(s.data) {
					return io.ErrUnexpectedEOF
				}
				for i := 0; i < perEntry; i++ {
					if err := s.skip(); err != nil {
						return err
					}
				}
			}
			s.pos++
			return nil
		}
		// Every entry is at least one byte, which bounds arg before looping.
		if arg > uint64(len(s.data)-s.pos) {
			return io.ErrUnexpectedEOF
		}
		for i := uint64(0); i < arg*uint64(perEntry); i++ {
			if err := s.skip(); err != nil {
				return err
			}
		}
		return nil
	case majorTag:
		return s.skip()
	case majorSimple:
		// Floats carry their payload in the head argument.
		return nil
	default:
		return fmt.Errorf("unknown major type %d", major)
	}
}

// container reads an array or map head and returns its entry count, or -1
// for an indefinite-length container.
func (s *scanner) container(want byte) (int, error) {
	major, arg, indef, err := s.readHead()
	if err != nil {
		return 0, err
	}
	if major != want {
		return 0, fmt.Errorf("expected major type %d, got %d", want, major)
	}
	if indef {
		return -1, nil
	}
	if arg > uint64(len(s.data)-s.pos) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(arg), nil // #nosec G115 - bounded by len(s.data)
}

// more reports whether another entry follows in a container opened by
// container. It consumes the break of an indefinite container.
func (s *scanner) more(count, index int) (bool, error) {
	if count >= 0 {
		return index < count, nil
	}
	if s.pos >= len(s.data) {
		return false, io.ErrUnexpectedEOF
	}
	if s.atBreak() {
		s.pos++
		return false, nil
	}
	return true, nil
}
