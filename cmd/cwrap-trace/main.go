package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mgelde/cwrap"
	"github.com/mgelde/cwrap/check"
	"github.com/mgelde/cwrap/guard"
	"github.com/mgelde/cwrap/mockapi"
	"github.com/mgelde/cwrap/track"
)

func main() {
	var (
		n           = flag.Int("n", 64, "Resources to cycle through the workload")
		workers     = flag.Int("workers", 4, "Concurrent workload goroutines")
		leak        = flag.Int("leak", 0, "Guards to abandon without releasing")
		failures    = flag.Int("failures", 0, "Acquisitions primed to fail")
		profileFile = flag.String("profile", "", "Write a pprof profile of live guards to this file")
		metrics     = flag.Bool("metrics", false, "Dump Prometheus metrics after the run")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Log guard events")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*n, *workers, *leak, *failures, *profileFile, *metrics, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// acquire obtains a resource from the fake library through a call check:
// nil means failure and the error carries the library's errno.
func acquire(api *mockapi.API) (*mockapi.Resource, error) {
	return check.Call[*mockapi.Resource, check.NotNil[mockapi.Resource], check.FromErrno[*mockapi.Resource]](api.CreateAndInitialize)
}

// cycle runs one resource through its full life: acquire, work, release
// at scope exit.
func cycle(api *mockapi.API, i int) error {
	res, err := acquire(api)
	if err != nil {
		return err
	}
	g := guard.New(cwrap.NoFail[*mockapi.Resource](api.FreeResources), res, guard.WithLabel(fmt.Sprintf("cycle-%d", i)))
	defer g.MustRelease()

	_, err = check.Call[int, check.NotNegative[int], check.FromErrno[int]](func() int {
		return api.DoInitWork(g.Get())
	})
	return err
}

// abandon arms a guard and drops it, so only the leak detector can find
// it again.
//
//go:noinline
func abandon(api *mockapi.API, i int) {
	res := api.CreateAndInitialize()
	guard.New(cwrap.NoFail[*mockapi.Resource](api.FreeResources), res, guard.WithLabel(fmt.Sprintf("abandoned-%d", i)))
}

type eventPrinter struct{}

func (eventPrinter) OnGuardEvent(ev guard.Event) {
	if ev.Err != nil {
		fmt.Printf("  [%s] guard #%d %s: %v\n", ev.Type, ev.ID, ev.Label, ev.Err)
		return
	}
	fmt.Printf("  [%s] guard #%d %s %s\n", ev.Type, ev.ID, ev.Label, ev.Origin())
}

func run(n, workers, leakCount, failures int, profileFile string, dumpMetrics, verbose bool) error {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer logger.Sync()
		guard.SetLogger(logger)
	}

	registry := track.NewRegistry()
	promReg := prometheus.NewRegistry()
	registry.Subscribe(track.NewMetrics(promReg))
	if verbose {
		registry.Subscribe(eventPrinter{})
	}
	guard.SetMonitor(registry)

	api := mockapi.New()

	fmt.Printf("Cycling %d resources across %d workers...\n", n, workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	tasks := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if err := cycle(api, i); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		tasks <- i
	}
	close(tasks)
	wg.Wait()
	if firstErr != nil {
		return fmt.Errorf("workload: %w", firstErr)
	}

	if failures > 0 {
		fmt.Printf("\nPriming %d acquisition failures...\n", failures)
		drill := []syscall.Errno{syscall.ENOMEM, syscall.EIO, syscall.EACCES, syscall.ENOENT}
		for i := 0; i < failures; i++ {
			api.FailNext(drill[i%len(drill)])
			if _, err := acquire(api); err == nil {
				return fmt.Errorf("primed acquisition %d did not fail", i)
			} else if i == 0 {
				fmt.Printf("  first failure: %v\n", err)
			}
		}
	}

	if leakCount > 0 {
		fmt.Printf("\nAbandoning %d guards and waiting for the collector to notice...\n", leakCount)
		for i := 0; i < leakCount; i++ {
			abandon(api, i)
		}
		deadline := time.Now().Add(3 * time.Second)
		for registry.Stats().Leaked < uint64(leakCount) && time.Now().Before(deadline) {
			runtime.GC()
			time.Sleep(10 * time.Millisecond)
		}
	}

	stats := registry.Stats()
	fmt.Printf("\nGuards: %d armed, %d released (%d failed), %d leaked, %d live\n",
		stats.Armed, stats.Released, stats.Failed, stats.Leaked, stats.Live)
	fmt.Printf("Library calls: %+v, live resources: %d\n", api.Counts(), api.Live())

	if live := registry.Snapshot(); len(live) > 0 {
		fmt.Printf("\nLive guards:\n")
		for _, e := range live {
			fmt.Printf("  #%-4d %-18s armed %s ago at %s\n",
				e.ID, e.Label, time.Since(e.ArmedAt).Round(time.Millisecond), e.Origin())
		}
	}

	if profileFile != "" {
		f, err := os.Create(profileFile)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		if err := registry.Profile(f); err != nil {
			f.Close()
			return fmt.Errorf("write profile: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("\nLive-guard profile written to %s\n", profileFile)
	}

	if dumpMetrics {
		fmt.Printf("\n--- metrics ---\n")
		families, err := promReg.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return fmt.Errorf("encode metrics: %w", err)
			}
		}
	}

	if stats.Leaked > 0 || stats.Live > 0 {
		return fmt.Errorf("%d guards leaked, %d still live", stats.Leaked, stats.Live)
	}
	return nil
}
