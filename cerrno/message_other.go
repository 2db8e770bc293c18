//go:build !unix

package cerrno

import "syscall"

// Message renders an error number using the platform error string.
func Message(e syscall.Errno) string {
	if e == 0 {
		return "no error"
	}
	return e.Error()
}
