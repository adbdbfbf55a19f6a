// Package store implements workspace persistence: a primary JSON array
// file plus a single-object overlay file, adapted from termtile's
// internal/workspace/storage.go.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// ErrWorkspaceNotFound is returned when a workspace id is absent from
// both the primary file and the overlay.
var ErrWorkspaceNotFound = errors.New("workspace not found")

const (
	primaryFileName = "workspaces.json"
	overlayFileName = "workspaces.temp.json"
)

// Store reads workspaces from two well-known JSON files under a config
// directory. It never mutates either file; editing workspaces is out of
// scope for the reconciliation engine.
type Store struct {
	dir string
}

// Dir returns the default workspace config directory, mirroring the
// teacher's workspacesDir() convention.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "workspacesd"), nil
}

// New creates a Store rooted at dir. An empty dir resolves to the
// default config directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		d, err := Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Store{dir: dir}, nil
}

func (s *Store) primaryPath() string {
	return filepath.Join(s.dir, primaryFileName)
}

func (s *Store) overlayPath() string {
	return filepath.Join(s.dir, overlayFileName)
}

// ReadAll loads every workspace in the primary file. A missing file
// reads as an empty list, not an error.
func (s *Store) ReadAll() ([]wsmodel.Workspace, error) {
	data, err := os.ReadFile(s.primaryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspaces: %w", err)
	}

	var workspaces []wsmodel.Workspace
	if err := json.Unmarshal(data, &workspaces); err != nil {
		return nil, fmt.Errorf("parse workspaces: %w", err)
	}
	return workspaces, nil
}

// ReadOverlay loads the single ad-hoc workspace in the overlay file, if
// present.
func (s *Store) ReadOverlay() (*wsmodel.Workspace, error) {
	data, err := os.ReadFile(s.overlayPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read overlay workspace: %w", err)
	}

	var ws wsmodel.Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse overlay workspace: %w", err)
	}
	return &ws, nil
}

// Find locates a workspace by id: primary file first, overlay second.
func (s *Store) Find(id string) (wsmodel.Workspace, error) {
	workspaces, err := s.ReadAll()
	if err != nil {
		return wsmodel.Workspace{}, err
	}
	for _, ws := range workspaces {
		if ws.ID == id {
			return ws, nil
		}
	}

	overlay, err := s.ReadOverlay()
	if err != nil {
		return wsmodel.Workspace{}, err
	}
	if overlay != nil && overlay.ID == id {
		return *overlay, nil
	}

	return wsmodel.Workspace{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
}
