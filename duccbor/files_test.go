package duccbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func TestParseLazyMatchesEagerWithoutPayloads(t *testing.T) {
	data, err := Encode(sampleDocument(t))
	require.NoError(t, err)

	eager, err := Parse(data)
	require.NoError(t, err)
	lazy, err := ParseLazy(data)
	require.NoError(t, err)

	for pair := eager.Files.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Data = nil
	}
	requireSameDocument(t, eager, lazy)
}

func TestListExternalFiles(t *testing.T) {
	data, err := Encode(sampleDocument(t))
	require.NoError(t, err)

	listing, err := ListExternalFiles(data)
	require.NoError(t, err)
	require.Len(t, listing, 3)

	retrieved := int64(1700000005000)
	assert.Equal(t, models.FileMetadata{ID: "file_png", MimeType: "image/png", Created: 1700000000000, LastRetrieved: &retrieved, Size: 4, HasData: true}, listing[0])
	assert.Equal(t, models.FileMetadata{ID: "file_empty", MimeType: "application/octet-stream", Created: 1, Size: 0, HasData: true}, listing[1])
	assert.Equal(t, models.FileMetadata{ID: "file_remote", MimeType: "image/jpeg", Created: 2}, listing[2])
}

func TestGetExternalFile(t *testing.T) {
	doc := sampleDocument(t)
	data, err := Encode(doc)
	require.NoError(t, err)

	listing, err := ListExternalFiles(data)
	require.NoError(t, err)

	for _, meta := range listing {
		t.Run(meta.ID, func(t *testing.T) {
			file, ok, err := GetExternalFile(data, meta.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, meta, file.Metadata())

			want, _ := doc.File(meta.ID)
			assert.Equal(t, want, file)
		})
	}

	t.Run("absent id", func(t *testing.T) {
		file, ok, err := GetExternalFile(data, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, file)
	})

	t.Run("returned payload is a copy", func(t *testing.T) {
		file, ok, err := GetExternalFile(data, "file_png")
		require.NoError(t, err)
		require.True(t, ok)
		file.Data[0] = 0

		again, _, err := GetExternalFile(data, "file_png")
		require.NoError(t, err)
		assert.Equal(t, byte(0x89), again.Data[0])
	})

	t.Run("malformed buffer", func(t *testing.T) {
		broken := append([]byte(nil), data...)
		broken[1] = 'X'
		_, _, err := GetExternalFile(broken, "file_png")
		assert.ErrorIs(t, err, constants.ErrInvalidFormat)

		_, err = ListExternalFiles(data[:len(data)-1])
		assert.ErrorIs(t, err, constants.ErrInvalidFormat)
	})
}

func TestDuplicateFileIDsKeepFirstPositionLastValue(t *testing.T) {
	body := mustMarshal(t, wireRoot{
		Version: strPtr("2.0.0"),
		Files: fileEntries{
			mustMarshal(t, wireFile{ID: "a", MimeType: "old"}),
			mustMarshal(t, wireFile{ID: "b", MimeType: "b"}),
			mustMarshal(t, wireFile{ID: "a", MimeType: "new", Data: []byte{7}}),
		},
	})
	data := append([]byte("DUC_"), body...)

	doc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, models.FileIDs(doc.Files))
	a, _ := doc.File("a")
	assert.Equal(t, "new", a.MimeType)

	listing, err := ListExternalFiles(data)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, "new", listing[0].MimeType)

	file, ok, err := GetExternalFile(data, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{7}, file.Data)
}

// Hand written buffer using indefinite-length containers and a chunked
// payload, which the encoder never produces.
func TestIndefiniteLengthFileEntries(t *testing.T) {
	data := []byte("DUC_")
	// root table with two slots
	data = append(data, 0xa2)
	// 2: "2.0.0"
	data = append(data, 0x02, 0x65, '2', '.', '0', '.', '0')
	// 6: [_ {_ ...}]
	data = append(data, 0x06, 0x9f, 0xbf)
	// 1: "a"
	data = append(data, 0x01, 0x61, 'a')
	// 2: "image/png"
	data = append(data, 0x02, 0x69, 'i', 'm', 'a', 'g', 'e', '/', 'p', 'n', 'g')
	// 3: -10
	data = append(data, 0x03, 0x3a, 0x00, 0x00, 0x00, 0x09)
	// 5: (_ h'0102', h'03')
	data = append(data, 0x05, 0x5f, 0x42, 0x01, 0x02, 0x41, 0x03, 0xff)
	// 99: null
	data = append(data, 0x18, 0x63, 0xf6)
	// end of entry, end of list
	data = append(data, 0xff, 0xff)

	doc, err := Decode(data)
	require.NoError(t, err)
	file, ok := doc.File("a")
	require.True(t, ok)
	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, int64(-10), file.Created)
	assert.Equal(t, []byte{1, 2, 3}, file.Data)

	lazy, err := ParseLazy(data)
	require.NoError(t, err)
	lazyFile, ok := lazy.File("a")
	require.True(t, ok)
	assert.Nil(t, lazyFile.Data)
	assert.Equal(t, int64(-10), lazyFile.Created)

	listing, err := ListExternalFiles(data)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, int64(3), listing[0].Size)
	assert.True(t, listing[0].HasData)
}
