package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/workspacesd/internal/appscache"
	"github.com/1broseidon/workspacesd/internal/facade"
	"github.com/1broseidon/workspacesd/internal/wsmodel"
)

// cacheWithEntry writes a single .desktop file to a temp directory and
// warms a Cache from it, so Lookup(aumid) resolves to exec.
func cacheWithEntry(t *testing.T, aumid, name, exec string) *appscache.Cache {
	t.Helper()
	dir := t.TempDir()
	contents := fmt.Sprintf("[Desktop Entry]\nName=%s\nExec=%s\n", name, exec)
	if err := os.WriteFile(filepath.Join(dir, aumid+".desktop"), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fake desktop entry: %v", err)
	}
	c := appscache.New([]string{dir})
	if err := c.Warm(); err != nil {
		t.Fatalf("warm failed: %v", err)
	}
	return c
}

func TestLaunch_PackagedViaAUMID(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{PackageFullName: "Org.App_1.0.0.0_x64", AppUserModelID: "Org.App_abc!App"}

	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected success, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestLaunch_FallsThroughToPackagedDirect(t *testing.T) {
	host := facade.NewFake()
	host.LaunchFailures["Org.App_abc!App"] = errors.New("aumid launch refused")
	app := wsmodel.Application{
		PackageFullName: "Org.App_1.0.0.0_x64",
		AppUserModelID:  "Org.App_abc!App",
	}

	// Not a steam: protocol, and CommandLineArgs empty, so step 3 (packaged direct) should succeed.
	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected step 3 success, failures=%v", failures)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 recorded failure from step 1, got %v", failures)
	}
}

func TestLaunch_AUMIDResolvesThroughCache(t *testing.T) {
	host := facade.NewFake()
	// Fail the cached exec path specifically; success via the AUMID
	// shell fallback would not hit this key, so failing here and
	// asserting the identifier proves Spawn was reached with the
	// resolved path rather than LaunchShellAUMID with the raw AUMID.
	host.LaunchFailures["/opt/org/app"] = errors.New("spawn refused")
	cache := cacheWithEntry(t, "Org.App_abc!App", "App", "/opt/org/app --flag %U")
	app := wsmodel.Application{PackageFullName: "Org.App_1.0.0.0_x64", AppUserModelID: "Org.App_abc!App"}

	ok, failures := Launch(host, cache, app)
	if ok {
		t.Fatalf("expected failure from the forced spawn error")
	}
	if len(failures) != 1 || failures[0].Identifier != "Org.App_abc!App" {
		t.Fatalf("expected the cascade to record the AUMID identifier, got %v", failures)
	}
}

func TestLaunch_AUMIDFallsBackOnCacheMiss(t *testing.T) {
	host := facade.NewFake()
	cache := appscache.New(nil)
	if err := cache.Warm(); err != nil {
		t.Fatalf("warm failed: %v", err)
	}
	app := wsmodel.Application{PackageFullName: "Org.App_1.0.0.0_x64", AppUserModelID: "Org.App_abc!App"}

	ok, failures := Launch(host, cache, app)
	if !ok {
		t.Fatalf("expected success via LaunchShellAUMID fallback, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestParseExecLine(t *testing.T) {
	path, args := parseExecLine("/opt/org/app --flag %U %i value")
	if path != "/opt/org/app" {
		t.Fatalf("expected parsed path, got %q", path)
	}
	want := []string{"--flag", "value"}
	if len(args) != len(want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, args)
		}
	}
}

func TestLaunch_SteamProtocol(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{AppUserModelID: "steam://rungameid/123"}

	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected success, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestLaunch_PWAModernUsesAUMID(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{
		PWAAppID:       "abcdef",
		Version:        "1",
		AppUserModelID: "MSEDGE.abcdef",
	}

	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected success, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestLaunch_PWAProxyRewritesPathAndArgs(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{
		PWAAppID: "abcdef",
		Version:  "0", // not modern-usable
		Path:     "/opt/google/chrome/chrome",
	}

	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected success, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestLaunch_PlainExecutable(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{Path: "/usr/bin/gnome-terminal", CommandLineArgs: "--working-directory=/tmp"}

	ok, failures := Launch(host, nil, app)
	if !ok {
		t.Fatalf("expected success, failures=%v", failures)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}
}

func TestLaunch_NoExecutablePathFails(t *testing.T) {
	host := facade.NewFake()
	app := wsmodel.Application{Name: "ghost"}

	ok, failures := Launch(host, nil, app)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(failures) != 1 || failures[0].Identifier != "ghost" {
		t.Fatalf("expected a single failure identified by app name, got %v", failures)
	}
}

func TestLaunch_SpawnFailurePropagates(t *testing.T) {
	host := facade.NewFake()
	host.LaunchFailures["/usr/bin/missing"] = errors.New("no such file")
	app := wsmodel.Application{Path: "/usr/bin/missing"}

	ok, failures := Launch(host, nil, app)
	if ok {
		t.Fatalf("expected failure")
	}
	if len(failures) != 1 || failures[0].Identifier != "/usr/bin/missing" {
		t.Fatalf("expected spawn failure recorded, got %v", failures)
	}
}

func TestIsVersionAtLeastOne(t *testing.T) {
	cases := map[string]bool{
		"1":   true,
		"2":   true,
		"0":   false,
		"":    false,
		" 3 ": true,
		"abc": false,
	}
	for v, want := range cases {
		if got := isVersionAtLeastOne(v); got != want {
			t.Fatalf("isVersionAtLeastOne(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestProxyPath(t *testing.T) {
	path, ok := proxyPath("/opt/google/chrome/chrome")
	if !ok || path != "/opt/google/chrome/chrome_proxy" {
		t.Fatalf("unexpected result: path=%q ok=%v", path, ok)
	}

	if _, ok := proxyPath("/usr/bin/gnome-terminal"); ok {
		t.Fatalf("expected no rewrite for a non-browser executable")
	}

	if _, ok := proxyPath(""); ok {
		t.Fatalf("expected no rewrite for an empty path")
	}
}

func TestSplitArgs(t *testing.T) {
	if got := splitArgs("  "); got != nil {
		t.Fatalf("expected nil for blank args, got %v", got)
	}
	got := splitArgs("--flag value --other")
	want := []string{"--flag", "value", "--other"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
