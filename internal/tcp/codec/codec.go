// Package codec encodes and decodes the fixed-format messages of the file
// transfer protocol. All multi-byte integers are big-endian and every
// variable-length field is preceded by its length.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

// WriteCommand writes a single command byte
func WriteCommand(w io.Writer, cmd byte) error {
	return writeAll(w, []byte{cmd}, "command")
}

// ReadCommand reads a single command byte
func ReadCommand(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, readError("command", err)
	}
	return b[0], nil
}

// WriteGetRequest writes GET, the filename length and the filename in one write
func WriteGetRequest(w io.Writer, name string) error {
	if len(name) > defs.MaxFilenameLength {
		return fmt.Errorf("%w: %w: %d bytes", errs.ErrProtocol, errs.ErrNameTooLong, len(name))
	}
	msg := make([]byte, 1+defs.FilenameLengthSize+len(name))
	msg[0] = defs.CmdGet
	binary.BigEndian.PutUint16(msg[1:3], uint16(len(name)))
	copy(msg[3:], name)
	return writeAll(w, msg, "get request")
}

// ReadFilename reads the length-prefixed filename that follows a GET
func ReadFilename(r io.Reader) (string, error) {
	var lenBuf [defs.FilenameLengthSize]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", readError("filename length", err)
	}

	name := make([]byte, binary.BigEndian.Uint16(lenBuf[:]))
	if _, err := io.ReadFull(r, name); err != nil {
		return "", readError("filename", err)
	}
	return string(name), nil
}

// WriteStatus writes a single status byte
func WriteStatus(w io.Writer, status byte) error {
	return writeAll(w, []byte{status}, "status")
}

// ReadStatus reads a single status byte
func ReadStatus(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, readError("status", err)
	}
	return b[0], nil
}

// WriteMetadata writes size then modification time
func WriteMetadata(w io.Writer, meta domain.FileMeta) error {
	var buf [defs.MetadataSize]byte
	binary.BigEndian.PutUint32(buf[0:4], meta.Size)
	binary.BigEndian.PutUint32(buf[4:8], meta.ModTime)
	return writeAll(w, buf[:], "metadata")
}

// ReadMetadata reads size then modification time
func ReadMetadata(r io.Reader) (domain.FileMeta, error) {
	var buf [defs.MetadataSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return domain.FileMeta{}, readError("metadata", err)
	}
	return domain.FileMeta{
		Size:    binary.BigEndian.Uint32(buf[0:4]),
		ModTime: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// SendContent copies exactly size bytes from src to w in chunks of at most
// len(buf). It returns the number of bytes written to w.
func SendContent(w io.Writer, src io.Reader, size uint32, buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty chunk buffer", errs.ErrIO)
	}

	var sent uint32
	for sent < size {
		chunk := remaining(size, sent, len(buf))
		n, err := io.ReadFull(src, buf[:chunk])
		if err != nil {
			return sent, fmt.Errorf("%w: source ended at %d of %d bytes: %w", errs.ErrIO, sent+uint32(n), size, err)
		}
		if err := writeAll(w, buf[:chunk], "file content"); err != nil {
			return sent, err
		}
		sent += uint32(chunk)
	}
	return sent, nil
}

// ReceiveContent copies exactly size bytes from r to dst in chunks of at most
// len(buf). Bytes received before a failure are still written to dst.
func ReceiveContent(r io.Reader, dst io.Writer, size uint32, buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("%w: empty chunk buffer", errs.ErrIO)
	}

	var received uint32
	for received < size {
		chunk := remaining(size, received, len(buf))
		n, readErr := io.ReadFull(r, buf[:chunk])
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return received, fmt.Errorf("%w: write destination: %w", errs.ErrIO, err)
			}
			received += uint32(n)
		}
		if readErr != nil {
			if isTimeout(readErr) {
				return received, fmt.Errorf("%w: file content: %w", errs.ErrTimeout, readErr)
			}
			return received, fmt.Errorf("%w: received %d of %d bytes: %w", errs.ErrPartialTransfer, received, size, readErr)
		}
	}
	return received, nil
}

func remaining(size, done uint32, bufLen int) int {
	left := size - done
	if uint64(left) < uint64(bufLen) {
		return int(left)
	}
	return bufLen
}

func writeAll(w io.Writer, b []byte, field string) error {
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: write %s: %w", errs.ErrTimeout, field, err)
		}
		return fmt.Errorf("%w: write %s: %w", errs.ErrIO, field, err)
	}
	return nil
}

// readError classifies a failed fixed-length read. A stream that ends before
// the declared byte count is a framing error.
func readError(field string, err error) error {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: read %s: %w", errs.ErrProtocol, field, err)
	case isTimeout(err):
		return fmt.Errorf("%w: read %s: %w", errs.ErrTimeout, field, err)
	default:
		return fmt.Errorf("%w: read %s: %w", errs.ErrIO, field, err)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
