package handlers

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/memory/transferlog"
	"gitlab.com/fcv-2025.net/fileget/internal/bufpool"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
)

type memFile struct {
	content []byte
	modTime uint32
}

type memStore map[string]memFile

func (s memStore) Open(name string) (io.ReadCloser, domain.FileMeta, error) {
	f, ok := s[name]
	if !ok {
		return nil, domain.FileMeta{}, fmt.Errorf("%w: %s", errs.ErrNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(f.content)), domain.FileMeta{Size: uint32(len(f.content)), ModTime: f.modTime}, nil
}

func newGetHandler(files memStore) (*GetFileHandler, *transfer.TransferLogService) {
	logger := logging.NewNopLogger()
	transfers := transfer.NewTransferLogService(transferlog.NewTransferRepository(10), logger)
	return &GetFileHandler{
		Files:     files,
		Transfers: transfers,
		Buffers:   bufpool.New(2),
		Logger:    logger,
	}, transfers
}

func filenameFrame(name string) []byte {
	b := make([]byte, 2, 2+len(name))
	binary.BigEndian.PutUint16(b, uint16(len(name)))
	return append(b, name...)
}

func TestGetFileHandlerServesFile(t *testing.T) {
	h, transfers := newGetHandler(memStore{"test.txt": {content: []byte("hello"), modTime: 1700000000}})

	var out bytes.Buffer
	keepAlive, err := h.HandleCommand(context.Background(), &primary.Exchange{
		In:       bytes.NewReader(filenameFrame("test.txt")),
		Out:      &out,
		WorkerID: "w0",
	})
	require.NoError(t, err)
	assert.True(t, keepAlive)

	expected := []byte{1, 0, 0, 0, 5, 0x65, 0x53, 0xf1, 0x00, 'h', 'e', 'l', 'l', 'o'}
	assert.Equal(t, expected, out.Bytes())

	records, err := transfers.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransferStatusOK, records[0].Status)
	assert.EqualValues(t, 5, records[0].BytesSent)
	assert.Equal(t, "w0", records[0].WorkerID)
}

func TestGetFileHandlerNotFound(t *testing.T) {
	h, transfers := newGetHandler(memStore{})

	var out bytes.Buffer
	keepAlive, err := h.HandleCommand(context.Background(), &primary.Exchange{
		In:  bytes.NewReader(filenameFrame("missing.txt")),
		Out: &out,
	})
	require.NoError(t, err)
	assert.False(t, keepAlive)
	assert.Equal(t, []byte{3}, out.Bytes(), "no metadata or content may follow NOT_FOUND")

	records, _ := transfers.ListRecent(context.Background(), 1)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransferStatusNotFound, records[0].Status)
}

func TestGetFileHandlerEmptyFile(t *testing.T) {
	h, _ := newGetHandler(memStore{"empty": {modTime: 1}})

	var out bytes.Buffer
	keepAlive, err := h.HandleCommand(context.Background(), &primary.Exchange{
		In:  bytes.NewReader(filenameFrame("empty")),
		Out: &out,
	})
	require.NoError(t, err)
	assert.True(t, keepAlive)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0, 1}, out.Bytes())
}

func TestGetFileHandlerTruncatedFilename(t *testing.T) {
	h, transfers := newGetHandler(memStore{})

	var out bytes.Buffer
	_, err := h.HandleCommand(context.Background(), &primary.Exchange{
		In:  bytes.NewReader([]byte{0, 9, 'a'}),
		Out: &out,
	})
	assert.True(t, errors.Is(err, errs.ErrProtocol))
	assert.Zero(t, out.Len())

	records, _ := transfers.ListRecent(context.Background(), 1)
	assert.Empty(t, records)
}

type limitedWriter struct {
	left int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > w.left {
		n := w.left
		w.left = 0
		return n, errors.New("connection reset")
	}
	w.left -= len(p)
	return len(p), nil
}

func TestGetFileHandlerWriteFailure(t *testing.T) {
	h, transfers := newGetHandler(memStore{"big": {content: bytes.Repeat([]byte("x"), 10)}})

	keepAlive, err := h.HandleCommand(context.Background(), &primary.Exchange{
		In:  bytes.NewReader(filenameFrame("big")),
		Out: &limitedWriter{left: 11},
	})
	assert.False(t, keepAlive)
	assert.True(t, errors.Is(err, errs.ErrIO))

	records, _ := transfers.ListRecent(context.Background(), 1)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransferStatusFailed, records[0].Status)
	assert.EqualValues(t, 2, records[0].BytesSent)
}

func TestQuitHandler(t *testing.T) {
	var out bytes.Buffer
	keepAlive, err := (&QuitHandler{Logger: logging.NewNopLogger()}).HandleCommand(context.Background(), &primary.Exchange{Out: &out})

	assert.NoError(t, err)
	assert.False(t, keepAlive)
	assert.Zero(t, out.Len())
}
