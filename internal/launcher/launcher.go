// Package launcher picks the right launch strategy for a workspace
// application, trying a fixed cascade of fallbacks and stopping at the
// first success. Grounded in WorkspacesService.cpp's LaunchApplication /
// LaunchAppWithFullLogic region.
package launcher

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/workspacesd/internal/appscache"
	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

const steamProtocolPrefix = "steam:"

// proxyRewrites maps a browser host executable's basename to its
// PWA-proxy sibling, lifted from the original's EdgePwaFilename /
// ChromePwaFilename constants.
var proxyRewrites = map[string]string{
	"msedge.exe": "msedge_proxy.exe",
	"chrome.exe": "chrome_proxy.exe",
	"msedge":     "msedge_proxy",
	"chrome":     "chrome_proxy",
}

// Failure records one failed strategy attempt, identified by whichever
// token (path, AUMID, or full name) that strategy was keyed on.
type Failure struct {
	Identifier string
	Err        error
}

// Launch runs the strategy cascade for app against os, returning true if
// some strategy succeeded. Every failed attempt is appended to the
// returned failure list; a successful launch may still carry prior
// failures from strategies it fell through. cache may be nil, in which
// case AUMID launches always shell out via host.LaunchShellAUMID.
func Launch(host facade.OS, cache *appscache.Cache, app wsmodel.Application) (bool, []Failure) {
	var failures []Failure
	record := func(id string, err error) {
		failures = append(failures, Failure{Identifier: id, Err: err})
	}

	// 1. Packaged via AUMID.
	if app.PackageFullName != "" && app.AppUserModelID != "" {
		if err := launchAUMID(host, cache, app.AppUserModelID, app.CommandLineArgs, app.IsElevated); err == nil {
			return true, failures
		} else {
			record(app.AppUserModelID, err)
		}
	}

	// 2. Protocol.
	if strings.HasPrefix(app.AppUserModelID, steamProtocolPrefix) {
		if err := host.LaunchProtocol(app.AppUserModelID, app.IsElevated); err == nil {
			return true, failures
		} else {
			record(app.AppUserModelID, err)
		}
	}

	// 3. Packaged direct.
	if app.PackageFullName != "" && app.CommandLineArgs == "" && !app.IsElevated {
		if err := host.LaunchPackaged(app.PackageFullName); err == nil {
			return true, failures
		} else {
			record(app.PackageFullName, err)
		}
	}

	// 4. PWA modern.
	pwaModernUsable := app.PWAAppID != "" && isVersionAtLeastOne(app.Version) && app.AppUserModelID != ""
	if pwaModernUsable {
		if err := launchAUMID(host, cache, app.AppUserModelID, app.CommandLineArgs, app.IsElevated); err == nil {
			return true, failures
		} else {
			record(app.AppUserModelID, err)
			pwaModernUsable = false
		}
	}

	// 5. PWA proxy: rewrite path/args, fall through to plain executable.
	path, args := app.Path, app.CommandLineArgs
	if app.PWAAppID != "" && !pwaModernUsable {
		if rewritten, ok := proxyPath(app.Path); ok {
			path = rewritten
			args = fmt.Sprintf("--profile-directory=Default --app-id=%s %s", app.PWAAppID, app.CommandLineArgs)
		}
	}

	// 6. Plain executable.
	if path == "" {
		record(app.Name, fmt.Errorf("no executable path available"))
		return false, failures
	}

	if _, err := host.Spawn(path, splitArgs(args), filepath.Dir(path), app.IsElevated); err != nil {
		record(path, err)
		return false, failures
	}

	return true, failures
}

// launchAUMID resolves aumid through cache's .desktop-entry snapshot and
// spawns its Exec= line directly; on a cache miss (or a nil cache) it
// falls back to the host's AUMID-shell strategy, which on Linux invokes
// "gio launch". extraArgs are appended after the entry's own arguments.
func launchAUMID(host facade.OS, cache *appscache.Cache, aumid, extraArgs string, elevated bool) error {
	if cache != nil {
		if entry, ok := cache.Lookup(aumid); ok {
			path, args := parseExecLine(entry.Exec)
			if path != "" {
				args = append(args, splitArgs(extraArgs)...)
				_, err := host.Spawn(path, args, filepath.Dir(path), elevated)
				return err
			}
		}
	}
	return host.LaunchShellAUMID(aumid, extraArgs, elevated)
}

// parseExecLine splits a .desktop Exec= value into an executable path and
// its argument list, dropping freedesktop field-code placeholders (%u,
// %U, %f, %F, %i, %c, %k) that have no meaning without a launch context.
func parseExecLine(exec string) (string, []string) {
	fields := strings.Fields(exec)
	var kept []string
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return "", nil
	}
	return kept[0], kept[1:]
}

func isVersionAtLeastOne(version string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(version))
	return err == nil && v >= 1
}

func proxyPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	proxy, ok := proxyRewrites[strings.ToLower(base)]
	if !ok {
		return "", false
	}
	return filepath.Join(dir, proxy), true
}

func splitArgs(args string) []string {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	return strings.Fields(args)
}
