package tcp

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
)

func TestAwaitReadableTimeout(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	err := awaitReadable(server, bufio.NewReader(server), 50*time.Millisecond)
	assert.True(t, errors.Is(err, errs.ErrTimeout), "got %v", err)
}

func TestAwaitReadableDataClearsDeadline(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go client.Write([]byte{2})

	in := bufio.NewReader(server)
	require.NoError(t, awaitReadable(server, in, 50*time.Millisecond))

	// buffered data satisfies the wait without touching the connection
	require.NoError(t, awaitReadable(server, in, time.Nanosecond))

	b, err := in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(2), b)

	// a read well past the first timeout must still succeed
	go func() {
		time.Sleep(150 * time.Millisecond)
		client.Write([]byte{9})
	}()
	b, err = in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(9), b)
}

func TestAwaitReadablePeerClosed(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	client.Close()

	err := awaitReadable(server, bufio.NewReader(server), time.Second)
	assert.True(t, errors.Is(err, errs.ErrIO))
}
