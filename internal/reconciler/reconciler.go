// Package reconciler implements the four-phase workspace reconciliation
// orchestrator: minimize unmanaged windows, bind existing windows,
// launch missing applications, and capture their new windows. Grounded
// in the teacher's internal/daemon.Reconciler for its slog-driven,
// panic-recovering top level, generalized from a periodic drift-checker
// into a one-shot request handler.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/workspacesd/internal/appscache"
	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/launcher"
	"github.com/1broseidon/workspacesd/internal/launchstate"
	"github.com/1broseidon/workspacesd/internal/matcher"
	"github.com/1broseidon/workspacesd/internal/pwa"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// Timings holds the constants governing Phase 3's instance serialization
// and Phase 4's capture timeout.
type Timings struct {
	MaxInstanceWait time.Duration
	Poll            time.Duration
	InstanceSettle  time.Duration
	Phase4Timeout   time.Duration
	MinimizeWorkers int
}

// DefaultTimings returns spec.md §4.6's constants.
func DefaultTimings() Timings {
	return Timings{
		MaxInstanceWait: 2000 * time.Millisecond,
		Poll:            50 * time.Millisecond,
		InstanceSettle:  500 * time.Millisecond,
		Phase4Timeout:   5000 * time.Millisecond,
		MinimizeWorkers: 4,
	}
}

// Result summarizes one reconciliation's outcome.
type Result struct {
	States   []launchstate.State
	Failures []launcher.Failure
}

// Reconciler drives workspace reconciliation against a facade.OS.
type Reconciler struct {
	os       facade.OS
	cache    *appscache.Cache
	resolver pwa.Resolver
	timings  Timings
	logger   *slog.Logger
}

// New creates a Reconciler. cache may be nil, in which case the launcher
// cascade falls back to its non-cached launch strategies. logger defaults
// to slog.Default() if nil.
func New(os facade.OS, cache *appscache.Cache, resolver pwa.Resolver, timings Timings, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{os: os, cache: cache, resolver: resolver, timings: timings, logger: logger}
}

// Reconcile runs the full four-phase workflow for ws.
func (r *Reconciler) Reconcile(ctx context.Context, ws wsmodel.Workspace) (*Result, error) {
	runID := uuid.NewString()
	log := r.logger.With("run_id", runID, "workspace_id", ws.ID)
	log.Info("reconciliation started", "app_count", len(ws.Apps))

	displays, err := r.os.Displays()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOsEnumeration, err)
	}

	states := launchstate.New(ws.Apps)
	var failures []launcher.Failure
	var failuresMu sync.Mutex
	recordFailure := func(f launcher.Failure) {
		failuresMu.Lock()
		failures = append(failures, f)
		failuresMu.Unlock()
	}

	start := time.Now()
	if err := r.phase1MinimizeUnmanaged(ws, states, log); err != nil {
		log.Error("phase 1 failed", "error", err)
	}
	log.Info("phase 1 completed", "duration_ms", time.Since(start).Milliseconds())

	start = time.Now()
	// Phase 2 always runs, regardless of ws.MoveExistingWindows: the
	// original always re-binds existing windows on reconciliation.
	if err := r.phase2BindExisting(ws, states, displays, log); err != nil {
		log.Error("phase 2 failed", "error", err)
	}
	log.Info("phase 2 completed", "duration_ms", time.Since(start).Milliseconds())

	start = time.Now()
	r.phase3LaunchMissing(ctx, ws, states, recordFailure, log)
	log.Info("phase 3 completed", "duration_ms", time.Since(start).Milliseconds())

	start = time.Now()
	if err := r.phase4CaptureNew(ctx, ws, states, displays, log); err != nil {
		log.Error("phase 4 failed", "error", err)
	}
	log.Info("phase 4 completed", "duration_ms", time.Since(start).Milliseconds())

	result := &Result{Failures: failures}
	for i := range ws.Apps {
		state, _ := states.Get(i)
		result.States = append(result.States, state)
	}

	log.Info("reconciliation finished", "failure_count", len(failures))

	return result, nil
}

// phase1MinimizeUnmanaged re-enumerates windows, excludes anything
// matching a workspace app or already bound, and minimizes the rest
// across a bounded worker pool.
func (r *Reconciler) phase1MinimizeUnmanaged(ws wsmodel.Workspace, states *launchstate.Map, log *slog.Logger) error {
	windows, err := r.os.ListWindows()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOsEnumeration, err)
	}

	var unmanaged []facade.WindowID
	for _, win := range windows {
		if states.IsWindowBound(win.ID) {
			continue
		}
		if r.matchesAnyApp(win, ws.Apps) {
			continue
		}
		unmanaged = append(unmanaged, win.ID)
	}

	workers := r.timings.MinimizeWorkers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(unmanaged) {
		workers = len(unmanaged)
	}
	if workers == 0 {
		return nil
	}

	chunks := splitEvenly(unmanaged, workers)
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(ids []facade.WindowID) {
			defer wg.Done()
			for _, id := range ids {
				if err := r.os.Minimize(id); err != nil {
					log.Warn("minimize failed", "window_id", id, "error", err)
				}
			}
		}(chunk)
	}
	wg.Wait()

	return nil
}

func (r *Reconciler) matchesAnyApp(win facade.WindowInfo, apps []wsmodel.Application) bool {
	for _, app := range apps {
		if matcher.IsMatch(win, app, r.resolver) {
			return true
		}
	}
	return false
}

// phase2BindExisting scans current windows once per application, in
// workspace order, binding the first match and placing it.
func (r *Reconciler) phase2BindExisting(ws wsmodel.Workspace, states *launchstate.Map, displays []facade.Display, log *slog.Logger) error {
	windows, err := r.os.ListWindows()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOsEnumeration, err)
	}

	for i, app := range ws.Apps {
		for _, win := range windows {
			if states.IsWindowBound(win.ID) {
				continue
			}
			if !matcher.IsMatch(win, app, r.resolver) {
				continue
			}

			if err := placeWindow(r.os, displays, win.ID, app); err != nil {
				log.Warn("phase 2 placement failed", "error", &PlacementFailedError{App: app.Name, WindowID: win.ID, Err: err})
				break
			}

			states.UpdateWindow(i, win.ID, launchstate.LaunchedAndMoved)
			break
		}
	}

	return nil
}

// phase3LaunchMissing drains the Waiting queue, serializing launches of
// the same application identity before invoking the launcher cascade.
func (r *Reconciler) phase3LaunchMissing(ctx context.Context, ws wsmodel.Workspace, states *launchstate.Map, recordFailure func(launcher.Failure), log *slog.Logger) {
	for {
		i, app, ok := states.Next(launchstate.Waiting)
		if !ok {
			return
		}

		if _, isAlreadyBound := r.matchAlreadyBound(app, states); isAlreadyBound {
			states.Update(i, launchstate.LaunchedAndMoved)
			continue
		}

		waited := r.waitForInstanceSlot(ctx, app, states)
		if waited {
			sleepCtx(ctx, r.timings.InstanceSettle)
		}

		ok2, failures := launcher.Launch(r.os, r.cache, app)
		for _, f := range failures {
			recordFailure(f)
		}
		if ok2 {
			states.Update(i, launchstate.Launched)
			log.Info("launched application", "app", app.Name)
		} else {
			var lastErr error
			if len(failures) > 0 {
				lastErr = failures[len(failures)-1].Err
			}
			states.Update(i, launchstate.Failed)
			log.Warn("launch failed", "error", &LaunchFailedError{App: app.Name, Err: lastErr})
		}
	}
}

// matchAlreadyBound reports whether some window already bound to
// another application also matches app (e.g. the same process was
// bound to an earlier instance in the workspace), returning its id.
func (r *Reconciler) matchAlreadyBound(app wsmodel.Application, states *launchstate.Map) (facade.WindowID, bool) {
	windows, err := r.os.ListWindows()
	if err != nil {
		return 0, false
	}
	for _, win := range windows {
		if !states.IsWindowBound(win.ID) {
			continue
		}
		if matcher.IsMatch(win, app, r.resolver) {
			return win.ID, true
		}
	}
	return 0, false
}

// waitForInstanceSlot polls until every instance sharing app's identity
// has reached a terminal state, or MaxInstanceWait elapses. Returns true
// if any waiting occurred.
func (r *Reconciler) waitForInstanceSlot(ctx context.Context, app wsmodel.Application, states *launchstate.Map) bool {
	deadline := time.Now().Add(r.timings.MaxInstanceWait)
	waited := false
	for !states.AllInstancesLaunchedAndMoved(app) && time.Now().Before(deadline) {
		waited = true
		if !sleepCtx(ctx, r.timings.Poll) {
			return waited
		}
	}
	return waited
}

// phase4CaptureNew loops, re-enumerating windows and binding the nearest
// unbound candidate for each Launched application, until every
// application is terminal or PHASE4_TIMEOUT_MS elapses.
func (r *Reconciler) phase4CaptureNew(ctx context.Context, ws wsmodel.Workspace, states *launchstate.Map, displays []facade.Display, log *slog.Logger) error {
	deadline := time.Now().Add(r.timings.Phase4Timeout)

	for {
		if states.AllLaunchedAndMoved() {
			return nil
		}
		if !time.Now().Before(deadline) {
			return nil
		}

		windows, err := r.os.ListWindows()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrOsEnumeration, err)
		}

		boundAny := false
		for i, app := range ws.Apps {
			state, _ := states.Get(i)
			if state != launchstate.Launched {
				continue
			}

			winID, found := r.nearestCandidate(windows, app, states)
			if !found {
				continue
			}

			if err := placeWindow(r.os, displays, winID, app); err != nil {
				log.Warn("phase 4 placement failed", "error", &PlacementFailedError{App: app.Name, WindowID: winID, Err: err})
				states.UpdateWindow(i, winID, launchstate.Failed)
				continue
			}

			states.UpdateWindow(i, winID, launchstate.LaunchedAndMoved)
			boundAny = true
		}

		if !boundAny {
			if !sleepCtx(ctx, r.timings.Poll) {
				return nil
			}
		}
	}
}

func (r *Reconciler) nearestCandidate(windows []facade.WindowInfo, app wsmodel.Application, states *launchstate.Map) (facade.WindowID, bool) {
	var best facade.WindowID
	bestDist := -1
	found := false

	for _, win := range windows {
		if states.IsWindowBound(win.ID) {
			continue
		}
		if !matcher.IsMatch(win, app, r.resolver) {
			continue
		}
		d := matcher.Distance(win, app)
		if !found || d < bestDist {
			best = win.ID
			bestDist = d
			found = true
		}
	}

	return best, found
}

// splitEvenly divides ids into n roughly-equal, contiguous slices.
func splitEvenly(ids []facade.WindowID, n int) [][]facade.WindowID {
	if n <= 0 {
		return nil
	}
	chunks := make([][]facade.WindowID, 0, n)
	chunkSize := (len(ids) + n - 1) / n
	for i := 0; i < len(ids); i += chunkSize {
		end := i + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[i:end])
	}
	return chunks
}

// sleepCtx sleeps for d or returns early (with false) if ctx is
// cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
