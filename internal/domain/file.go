package domain

import (
	"math"
	"time"
)

// FileMeta is the metadata sent ahead of a file's content. Both fields are
// 32-bit on the wire; larger files and timestamps after 2106 cannot be
// represented.
type FileMeta struct {
	Size    uint32 `json:"size"`
	ModTime uint32 `json:"mod_time"`
}

// NewFileMeta converts filesystem metadata to its wire form. ok is false
// when either value falls outside the unsigned 32-bit range.
func NewFileMeta(size int64, modTime time.Time) (meta FileMeta, ok bool) {
	sec := modTime.Unix()
	if size < 0 || size > math.MaxUint32 || sec < 0 || sec > math.MaxUint32 {
		return FileMeta{}, false
	}
	return FileMeta{Size: uint32(size), ModTime: uint32(sec)}, true
}

func (m FileMeta) ModTimeUTC() time.Time {
	return time.Unix(int64(m.ModTime), 0).UTC()
}
