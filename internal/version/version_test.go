package version

import (
	"runtime/debug"
	"testing"
)

func TestFillFromBuildInfo(t *testing.T) {
	t.Parallel()
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	var info Info
	fillFromBuildInfo(&info, bi)
	if info.Version != "1.4.0" || info.BuildTime != "2026-01-02T03:04:05Z" || !info.Modified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if got, want := info.String(), "1.4.0 (0123456789ab-dirty)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestLinkerValuesWin(t *testing.T) {
	t.Parallel()
	info := Info{Version: "2.0.0", Commit: "abc"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	})
	if info.Version != "2.0.0" || info.Commit != "abc" {
		t.Fatalf("linker values overwritten: %+v", info)
	}
	if got := info.String(); got != "2.0.0 (abc)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	info := Resolve()
	if info.Version == "" || info.GoVersion == "" || info.Library == "" {
		t.Fatalf("incomplete info: %+v", info)
	}
}
