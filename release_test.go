package cwrap

import (
	"fmt"
	"testing"

	"github.com/mgelde/cwrap/errors"
)

func TestReleaseFunc(t *testing.T) {
	var got int
	f := ReleaseFunc[int](func(res int) error {
		got = res
		return nil
	})

	if err := f.Release(42); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if got != 42 {
		t.Errorf("release saw %d, want 42", got)
	}
}

func TestReleaseFunc_Error(t *testing.T) {
	want := fmt.Errorf("close failed")
	f := ReleaseFunc[int](func(int) error { return want })

	if err := f.Release(0); err != want {
		t.Errorf("Release() = %v, want %v", err, want)
	}
}

func TestReleaseFunc_Empty(t *testing.T) {
	var f ReleaseFunc[int]
	mustPanicEmptyPolicy(t, func() {
		_ = f.Release(0)
	})
}

func TestNoFail(t *testing.T) {
	var got string
	f := NoFail[string](func(res string) {
		got = res
	})

	if err := f.Release("handle"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if got != "handle" {
		t.Errorf("release saw %q, want %q", got, "handle")
	}
}

func TestNoFail_Empty(t *testing.T) {
	var f NoFail[string]
	mustPanicEmptyPolicy(t, func() {
		_ = f.Release("")
	})
}

// mustPanicEmptyPolicy runs fn and fails the test unless it panics with
// an empty-policy diagnostic.
func mustPanicEmptyPolicy(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value is %T, want *errors.Error", r)
		}
		if err.Kind != errors.KindEmptyPolicy {
			t.Errorf("panic kind = %v, want %v", err.Kind, errors.KindEmptyPolicy)
		}
	}()
	fn()
}
