package reconciler

import (
	"errors"
	"fmt"

	"github.com/1broseidon/workspacesd/internal/facade"
)

// ErrBusy is returned when a reconciliation is requested while another
// is already in flight; the request is dropped, not queued.
var ErrBusy = errors.New("reconciliation already in progress")

// ErrOsEnumeration wraps a window-enumeration failure from the OS
// façade.
var ErrOsEnumeration = errors.New("failed to enumerate windows")

// LaunchFailedError reports that every strategy in the launcher cascade
// failed for an application.
type LaunchFailedError struct {
	App string
	Err error
}

func (e *LaunchFailedError) Error() string {
	return fmt.Sprintf("launch failed for %s: %v", e.App, e.Err)
}

func (e *LaunchFailedError) Unwrap() error {
	return e.Err
}

// PlacementFailedError reports that a bound window could not be moved,
// resized, or maximized into its target placement.
type PlacementFailedError struct {
	App      string
	WindowID facade.WindowID
	Err      error
}

func (e *PlacementFailedError) Error() string {
	return fmt.Sprintf("placement failed for %s (window %d): %v", e.App, e.WindowID, e.Err)
}

func (e *PlacementFailedError) Unwrap() error {
	return e.Err
}
