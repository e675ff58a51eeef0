package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/treetile-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	tests := []struct {
		name     string
		override string
		want     func(runtime string) string
	}{
		{"runtime dir", "", func(rt string) string { return filepath.Join(rt, "treetile.sock") }},
		{"override", "/tmp/custom.sock", func(string) string { return "/tmp/custom.sock" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := t.TempDir()
			t.Setenv("XDG_RUNTIME_DIR", td)
			t.Setenv(SocketEnv, tt.override)

			got, err := SocketPath()
			if err != nil {
				t.Fatalf("SocketPath() error: %v", err)
			}
			if want := tt.want(td); got != want {
				t.Fatalf("SocketPath() = %q, want %q", got, want)
			}
		})
	}
}
