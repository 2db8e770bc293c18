//go:build unix

package cerrno

import (
	"strings"
	"syscall"
	"testing"
)

func TestMessage_SymbolicName(t *testing.T) {
	msg := Message(syscall.EINVAL)
	if !strings.Contains(msg, "EINVAL") {
		t.Errorf("Message(EINVAL) = %q, should carry the symbolic name", msg)
	}
}
