//go:build !linux

package fs

import (
	"io/fs"
	"time"
)

// creationTime has no portable source outside Linux; callers fall back to
// the modification time.
func creationTime(fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
