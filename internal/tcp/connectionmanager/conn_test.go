package connectionmanager

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
)

func TestTrackReleaseCloseAll(t *testing.T) {
	cm := NewConnectionManager(logging.NewNopLogger())

	a1, a2 := net.Pipe()
	b1, b2 := net.Pipe()
	defer a2.Close()
	defer b2.Close()

	cm.Track("w0", a1)
	cm.Track("w1", b1)
	assert.Equal(t, 2, cm.Count())

	cm.Release("w1")
	assert.Equal(t, 1, cm.Count())

	assert.Equal(t, 1, cm.CloseAll())
	assert.Zero(t, cm.Count())

	// closed pipe end makes the peer see EOF
	_, err := a2.Read(make([]byte, 1))
	assert.Error(t, err)

	// released connection stays open
	go b2.Write([]byte{1})
	buf := make([]byte, 1)
	_, err = b1.Read(buf)
	assert.NoError(t, err)
	b1.Close()
}
