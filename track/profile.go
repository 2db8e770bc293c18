package track

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/pprof/profile"
)

// Profile writes a pprof-format profile of the live guards: one sample
// per armed guard, valued 1, attributed to the guard's arming stack.
// The output loads into go tool pprof, which makes "where do the
// guards that never get released come from" a solved problem.
func (r *Registry) Profile(w io.Writer) error {
	entries := r.Snapshot()

	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "guards", Unit: "count"},
		},
		PeriodType: &profile.ValueType{Type: "guards", Unit: "count"},
		Period:     1,
		TimeNanos:  time.Now().UnixNano(),
	}

	b := profileBuilder{p: p}
	for _, e := range entries {
		var stack []*profile.Location
		frames := runtime.CallersFrames(e.PCs)
		for {
			frame, more := frames.Next()
			if frame.Function != "" {
				stack = append(stack, b.location(frame))
			}
			if !more {
				break
			}
		}

		sample := &profile.Sample{
			Location: stack,
			Value:    []int64{1},
			NumLabel: map[string][]int64{
				"guard_id": {int64(e.ID)},
			},
		}
		if e.Label != "" {
			sample.Label = map[string][]string{
				"label": {e.Label},
			}
		}
		p.Sample = append(p.Sample, sample)
	}

	return p.Write(w)
}

// profileBuilder interns locations and functions so that guards armed
// at the same site share profile nodes.
type profileBuilder struct {
	p         *profile.Profile
	locations map[string]*profile.Location
	functions map[string]*profile.Function
}

func (b *profileBuilder) location(frame runtime.Frame) *profile.Location {
	key := fmt.Sprintf("%s:%d", frame.Function, frame.Line)
	if loc, ok := b.locations[key]; ok {
		return loc
	}
	loc := &profile.Location{
		ID:      uint64(len(b.p.Location) + 1),
		Address: uint64(frame.PC),
		Line: []profile.Line{
			{
				Function: b.function(frame),
				Line:     int64(frame.Line),
			},
		},
	}
	b.p.Location = append(b.p.Location, loc)
	if b.locations == nil {
		b.locations = make(map[string]*profile.Location)
	}
	b.locations[key] = loc
	return loc
}

func (b *profileBuilder) function(frame runtime.Frame) *profile.Function {
	if fn, ok := b.functions[frame.Function]; ok {
		return fn
	}
	fn := &profile.Function{
		ID:         uint64(len(b.p.Function) + 1),
		Name:       frame.Function,
		SystemName: frame.Function,
		Filename:   frame.File,
	}
	b.p.Function = append(b.p.Function, fn)
	if b.functions == nil {
		b.functions = make(map[string]*profile.Function)
	}
	b.functions[frame.Function] = fn
	return fn
}
