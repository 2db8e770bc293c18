//go:build unix

package cerrno

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Message renders an error number the way perror would, suffixed with the
// symbolic name when the platform knows one.
func Message(e syscall.Errno) string {
	if e == 0 {
		return "no error"
	}
	if name := unix.ErrnoName(e); name != "" {
		return fmt.Sprintf("%s (%s)", e.Error(), name)
	}
	return e.Error()
}
