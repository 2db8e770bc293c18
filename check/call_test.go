package check

import (
	"syscall"
	"testing"

	"github.com/mgelde/cwrap/cerrno"
	"github.com/mgelde/cwrap/errors"
)

func TestCall_Success(t *testing.T) {
	calls := 0

	v, err := Call[int, IsZero[int], ReportValue[int]](func() int {
		calls++
		return 0
	})

	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if v != 0 {
		t.Errorf("value = %d, want 0", v)
	}
	if calls != 1 {
		t.Errorf("fn ran %d times, want exactly once", calls)
	}
}

func TestCall_Failure(t *testing.T) {
	calls := 0

	v, err := Call[int, IsZero[int], ReportValue[int]](func() int {
		calls++
		return 5
	})

	if err == nil {
		t.Fatal("check should fail for a non-zero status")
	}
	if v != 5 {
		t.Errorf("value = %d, want 5 alongside the error", v)
	}
	if calls != 1 {
		t.Errorf("fn ran %d times, want exactly once", calls)
	}
	ce, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("err is %T, want *errors.Error", err)
	}
	if ce.Kind != errors.KindReturnValue {
		t.Errorf("Kind = %v, want %v", ce.Kind, errors.KindReturnValue)
	}
}

func TestCall_Defaults(t *testing.T) {
	if _, err := Call[int, DefaultReturn[int], DefaultError[int]](func() int { return 0 }); err != nil {
		t.Errorf("defaults should accept a zero status: %v", err)
	}
	if _, err := Call[int, DefaultReturn[int], DefaultError[int]](func() int { return 1 }); err == nil {
		t.Error("defaults should reject a non-zero status")
	}
}

func TestCall_NotNil(t *testing.T) {
	p, err := Call[*int, NotNil[int], ReportValue[*int]](func() *int {
		v := 7
		return &v
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if p == nil || *p != 7 {
		t.Errorf("pointer result lost: %v", p)
	}

	if _, err := Call[*int, NotNil[int], ReportValue[*int]](func() *int { return nil }); err == nil {
		t.Error("check should fail for a nil pointer")
	}
}

func TestCall_PreCall(t *testing.T) {
	t.Cleanup(cerrno.Clear)

	// A stale reading must not leak into the verdict.
	cerrno.Set(syscall.EIO)
	if _, err := Call[int, ErrnoClear[int], FromErrno[int]](func() int { return 0 }); err != nil {
		t.Fatalf("stale errno should have been cleared before the call: %v", err)
	}

	// A reading made by the call itself is the verdict.
	cerrno.Set(syscall.EIO)
	_, err := Call[int, ErrnoClear[int], FromErrno[int]](func() int {
		cerrno.Set(syscall.ERANGE)
		return 0
	})
	ce, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("err is %T, want *errors.Error", err)
	}
	if ce.Errno != syscall.ERANGE {
		t.Errorf("Errno = %v, want ERANGE", ce.Errno)
	}
}

func TestMust(t *testing.T) {
	v := Must[int, NotZero[int], ReportValue[int]](func() int { return 1 })
	if v != 1 {
		t.Errorf("value = %d, want 1", v)
	}
}

func TestMust_Panics(t *testing.T) {
	wantPanicKind(t, errors.KindReturnValue, func() {
		Must[int, NotZero[int], ReportValue[int]](func() int { return 0 })
	})
}

func TestContext(t *testing.T) {
	var posix Context[int, NotNegative[int], FromErrno[int]]
	t.Cleanup(cerrno.Clear)

	n, err := posix.Call(func() int { return 42 })
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if n != 42 {
		t.Errorf("value = %d, want 42", n)
	}

	cerrno.Set(syscall.EBADF)
	_, err = posix.Call(func() int { return -1 })
	ce, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("err is %T, want *errors.Error", err)
	}
	if ce.Errno != syscall.EBADF {
		t.Errorf("Errno = %v, want EBADF", ce.Errno)
	}
}

func TestFunc(t *testing.T) {
	status := 0
	probe := Bind[int, IsZero[int], ReportValue[int]](func() int { return status })

	if _, err := probe.Invoke(); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	status = 9
	if _, err := probe.Invoke(); err == nil {
		t.Fatal("Invoke should fail once the status turns non-zero")
	}
}

func TestFunc_Empty(t *testing.T) {
	var probe Func[int, IsZero[int], ReportValue[int]]
	wantPanicKind(t, errors.KindEmptyPolicy, func() {
		_, _ = probe.Invoke()
	})
}

type silentPolicy struct{}

func (silentPolicy) Fail(int) error { return nil }

func TestCall_SilentErrorPolicy(t *testing.T) {
	wantPanicKind(t, errors.KindEmptyPolicy, func() {
		_, _ = Call[int, NotZero[int], silentPolicy](func() int { return 0 })
	})
}

// wantPanicKind runs fn and fails the test unless it panics with a
// *errors.Error of the given kind.
func wantPanicKind(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		ce, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value is %T, want *errors.Error", r)
		}
		if ce.Kind != kind {
			t.Errorf("panic kind = %v, want %v", ce.Kind, kind)
		}
	}()
	fn()
}
