package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

func TestWriteGetRequestLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGetRequest(&buf, "test.txt"))

	assert.Equal(t, []byte{0x00, 0x00, 0x08, 't', 'e', 's', 't', '.', 't', 'x', 't'}, buf.Bytes())
}

func TestFilenameLengthRoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 255, 256, 1024, defs.MaxFilenameLength} {
		name := strings.Repeat("a", length)

		var buf bytes.Buffer
		require.NoError(t, WriteGetRequest(&buf, name))
		buf.WriteString("trailer")

		cmd, err := ReadCommand(&buf)
		require.NoError(t, err)
		assert.Equal(t, defs.CmdGet, cmd)

		got, err := ReadFilename(&buf)
		require.NoError(t, err)
		assert.Len(t, got, length)
		assert.Equal(t, name, got)
		assert.Equal(t, "trailer", buf.String(), "receiver must read exactly %d filename bytes", length)
	}
}

func TestWriteGetRequestRejectsLongName(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGetRequest(&buf, strings.Repeat("x", defs.MaxFilenameLength+1))

	assert.True(t, errors.Is(err, errs.ErrProtocol))
	assert.True(t, errors.Is(err, errs.ErrNameTooLong))
	assert.Zero(t, buf.Len())
}

func TestReadFilenameTruncated(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"no length", nil},
		{"half length", []byte{0x00}},
		{"short name", []byte{0x00, 0x05, 'a', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFilename(bytes.NewReader(tt.input))
			assert.True(t, errors.Is(err, errs.ErrProtocol), "got %v", err)
		})
	}
}

func TestMetadataLayout(t *testing.T) {
	var buf bytes.Buffer
	meta := domain.FileMeta{Size: 5, ModTime: 1700000000}
	require.NoError(t, WriteMetadata(&buf, meta))

	assert.Equal(t, []byte{0, 0, 0, 5, 0x65, 0x53, 0xf1, 0x00}, buf.Bytes())

	got, err := ReadMetadata(&buf)
	require.NoError(t, err)
	assert.Equal(t, meta, got)
}

func TestReadMetadataTruncated(t *testing.T) {
	_, err := ReadMetadata(bytes.NewReader([]byte{0, 0, 0, 5, 0}))
	assert.True(t, errors.Is(err, errs.ErrProtocol))
}

func TestStatusRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatus(&buf, defs.StatusNotFound))
	assert.Equal(t, []byte{3}, buf.Bytes())

	status, err := ReadStatus(&buf)
	require.NoError(t, err)
	assert.Equal(t, defs.StatusNotFound, status)

	_, err = ReadStatus(&buf)
	assert.True(t, errors.Is(err, errs.ErrProtocol))
	assert.True(t, errors.Is(err, io.EOF))
}

func TestSendContentExactSize(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		bufLen int
	}{
		{"empty", 0, 4},
		{"smaller than buffer", 3, 4},
		{"equal to buffer", 4, 4},
		{"multiple of buffer", 12, 4},
		{"not a multiple", 13, 4},
		{"default buffer", 5000, defs.DefaultBufferSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := bytes.Repeat([]byte{0xAB}, tt.size)
			// trailing data in the source must never be sent
			src := bytes.NewReader(append(append([]byte{}, content...), "extra"...))

			var out bytes.Buffer
			sent, err := SendContent(&out, src, uint32(tt.size), make([]byte, tt.bufLen))
			require.NoError(t, err)
			assert.EqualValues(t, tt.size, sent)
			assert.Equal(t, tt.size, out.Len())
			assert.True(t, bytes.Equal(content, out.Bytes()))
		})
	}
}

func TestSendContentShortSource(t *testing.T) {
	var out bytes.Buffer
	sent, err := SendContent(&out, strings.NewReader("hel"), 5, make([]byte, 2))

	assert.True(t, errors.Is(err, errs.ErrIO))
	assert.EqualValues(t, 2, sent)
	assert.Equal(t, "he", out.String())
}

func TestReceiveContentStopsAtSize(t *testing.T) {
	wire := bytes.NewBufferString("hello" + "\x00next")

	var dst bytes.Buffer
	received, err := ReceiveContent(wire, &dst, 5, make([]byte, 1024))
	require.NoError(t, err)
	assert.EqualValues(t, 5, received)
	assert.Equal(t, "hello", dst.String())
	assert.Equal(t, "\x00next", wire.String())
}

func TestReceiveContentPeerClosed(t *testing.T) {
	var dst bytes.Buffer
	received, err := ReceiveContent(strings.NewReader("hello wor"), &dst, 20, make([]byte, 4))

	assert.True(t, errors.Is(err, errs.ErrPartialTransfer))
	assert.EqualValues(t, 9, received)
	assert.Equal(t, "hello wor", dst.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReceiveContentDestinationFailure(t *testing.T) {
	_, err := ReceiveContent(strings.NewReader("hello"), failingWriter{}, 5, make([]byte, 4))
	assert.True(t, errors.Is(err, errs.ErrIO))
}

func TestWriteFailureIsIOError(t *testing.T) {
	err := WriteStatus(failingWriter{}, defs.StatusOK)
	assert.True(t, errors.Is(err, errs.ErrIO))
}
