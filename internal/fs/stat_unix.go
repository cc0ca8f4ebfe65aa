//go:build linux

package fs

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime extracts a creation-time stand-in from Linux stat data.
// True birth time is not available on most filesystems, so the
// status-change time is used instead.
func creationTime(info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec), true
}
