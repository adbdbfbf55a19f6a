// Package pwa resolves the progressive-web-app identity hosted inside a
// browser window, the last predicate in the matcher's cascade.
package pwa

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/workspacesd/internal/facade"
)

// Resolver derives a PWA app id from a browser host window.
type Resolver interface {
	// ResolveAppID returns the PWA app id associated with win's browser
	// profile, if any.
	ResolveAppID(win facade.WindowID) (string, bool)
}

// ChromiumResolver derives PWA app ids by reading the "Web Applications"
// preferences Chromium-family browsers keep under their user profile
// directory. It has no way to map an X11 window id to a profile path
// directly (there is no AUMID on Linux to carry that association), so it
// resolves by window title instead: PWA windows carry the app's display
// name as their title, which this resolver matches against the names
// recorded in each profile's Web Applications index.
type ChromiumResolver struct {
	profileDirs []string
	titleToApp  map[string]string
	loaded      bool
	windowTitle func(facade.WindowID) string
}

// NewChromiumResolver creates a resolver scanning profileDirs (Chromium
// "User Data" directories) for installed PWA metadata. windowTitle
// retrieves a window's title for the title-based lookup.
func NewChromiumResolver(profileDirs []string, windowTitle func(facade.WindowID) string) *ChromiumResolver {
	return &ChromiumResolver{
		profileDirs: profileDirs,
		windowTitle: windowTitle,
	}
}

// DefaultProfileDirs returns the standard Chromium-family "User Data"
// directories to scan, mirroring appscache.DefaultDirs' XDG layout.
func DefaultProfileDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "google-chrome"),
		filepath.Join(home, ".config", "chromium"),
		filepath.Join(home, ".config", "microsoft-edge"),
	}
}

type webAppsPreferences struct {
	WebApps map[string]struct {
		Name string `json:"name"`
	} `json:"web_apps"`
}

func (r *ChromiumResolver) load() {
	r.titleToApp = make(map[string]string)
	for _, dir := range r.profileDirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*", "Preferences"))
		for _, prefPath := range matches {
			data, err := os.ReadFile(prefPath)
			if err != nil {
				continue
			}
			var prefs webAppsPreferences
			if err := json.Unmarshal(data, &prefs); err != nil {
				continue
			}
			for appID, app := range prefs.WebApps {
				if app.Name == "" {
					continue
				}
				r.titleToApp[strings.ToLower(app.Name)] = appID
			}
		}
	}
	r.loaded = true
}

// ResolveAppID looks up the PWA app id whose installed name matches
// win's title.
func (r *ChromiumResolver) ResolveAppID(win facade.WindowID) (string, bool) {
	if !r.loaded {
		r.load()
	}
	if r.windowTitle == nil {
		return "", false
	}
	title := strings.ToLower(strings.TrimSpace(r.windowTitle(win)))
	if title == "" {
		return "", false
	}
	appID, ok := r.titleToApp[title]
	return appID, ok
}
