package cwrap

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestNop(t *testing.T) {
	if err := (Nop[int]{}).Release(7); err != nil {
		t.Errorf("Nop.Release() = %v, want nil", err)
	}
}

func TestChain(t *testing.T) {
	var order []string
	first := ReleaseFunc[int](func(int) error {
		order = append(order, "first")
		return fmt.Errorf("first failed")
	})
	second := ReleaseFunc[int](func(int) error {
		order = append(order, "second")
		return nil
	})
	third := ReleaseFunc[int](func(int) error {
		order = append(order, "third")
		return fmt.Errorf("third failed")
	})

	err := Chain[int]{first, second, third}.Release(7)

	if want := []string{"first", "second", "third"}; !slices.Equal(order, want) {
		t.Errorf("release order = %v, want %v", order, want)
	}
	if err == nil {
		t.Fatal("Chain should report the collected failures")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first failed") || !strings.Contains(msg, "third failed") {
		t.Errorf("joined error %q should carry both failures", msg)
	}
}

func TestChain_Empty(t *testing.T) {
	if err := (Chain[int]{}).Release(1); err != nil {
		t.Errorf("empty Chain.Release() = %v, want nil", err)
	}
}

func TestCounted(t *testing.T) {
	c := Count[int](Nop[int]{})

	for i := 0; i < 3; i++ {
		if err := c.Release(i); err != nil {
			t.Fatalf("Release failed: %v", err)
		}
	}
	if got := c.Calls(); got != 3 {
		t.Errorf("Calls() = %d, want 3", got)
	}
}

func TestCounted_Empty(t *testing.T) {
	c := Count[int](nil)
	mustPanicEmptyPolicy(t, func() {
		_ = c.Release(0)
	})
}
