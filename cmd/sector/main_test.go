package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("sector %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		args  []string
		files []string
	}{
		{"single png", []string{"-o", filepath.Join(dir, "one.png")}, []string{"one.png"}},
		{"numbered", []string{"-o", filepath.Join(dir, "seq.png"), "-n", "2", "--format", "paletted"}, []string{"seq-000.png", "seq-001.png"}},
		{"animated webp", []string{"-o", filepath.Join(dir, "spin.webp"), "-n", "3"}, []string{"spin.webp"}},
		{"automap", []string{"-o", filepath.Join(dir, "map.png"), "--automap", "--pos", "0,0"}, []string{"map.png"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := run(t, append([]string{"render", "--width", "80", "--height", "50", "-j", "2"}, tc.args...)...)
			if !strings.Contains(out, "rendered") {
				t.Errorf("output = %q", out)
			}
			for _, f := range tc.files {
				if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
					t.Error(err)
				}
			}
		})
	}

	f, err := os.Open(filepath.Join(dir, "one.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 50 {
		t.Errorf("image %v, want 80x50", b)
	}
}

func TestModesCommand(t *testing.T) {
	out := run(t, "modes", "--width", "321", "--height", "200")
	if !strings.Contains(out, "320x200") || !strings.Contains(out, "closest is 400x225") {
		t.Errorf("output = %q", out)
	}
}

func TestNumbered(t *testing.T) {
	if got := numbered("out/frame.png", 7); got != "out/frame-007.png" {
		t.Errorf("numbered = %q", got)
	}
}
