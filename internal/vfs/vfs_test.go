package vfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tileforge/internal/core"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fsys, err := New(dir)
	if err != nil {
		t.Fatalf("New(%s): %v", dir, err)
	}
	return fsys, dir
}

func TestReadTextFileRoundTrip(t *testing.T) {
	fsys, dir := newTestFS(t)
	text := "héllo, wörld ✓\nsecond line\n"
	if err := os.MkdirAll(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "shaders", "a.txt"), []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := fsys.ReadTextFile("shaders/a.txt")
	if err != nil {
		t.Fatalf("ReadTextFile: %v", err)
	}
	if got != text {
		t.Fatalf("ReadTextFile = %q, want %q", got, text)
	}
}

func TestReadFileBinaryRoundTrip(t *testing.T) {
	fsys, dir := newTestFS(t)
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i * 7)
	}
	if err := os.WriteFile(filepath.Join(dir, "blob.bin"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := fsys.ReadFile("blob.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(data) {
		t.Fatal("binary content differs")
	}
}

func TestReadFileMissing(t *testing.T) {
	fsys, _ := newTestFS(t)
	_, err := fsys.ReadFile("tilesets/none.png")
	if err == nil || !strings.Contains(err.Error(), "tilesets/none.png") {
		t.Fatalf("err = %v, want not-found naming the path", err)
	}
	if kind, _ := core.KindOf(err); kind != core.KindAsset {
		t.Fatalf("kind = %v, want asset", kind)
	}
}

func TestReadFileRejectsEscapingPaths(t *testing.T) {
	fsys, _ := newTestFS(t)
	for _, p := range []string{"/etc/passwd", "../secret", "a/../../b", ""} {
		_, err := fsys.ReadFile(p)
		if err == nil {
			t.Fatalf("ReadFile(%q) succeeded", p)
		}
		if kind, _ := core.KindOf(err); kind != core.KindConfig {
			t.Fatalf("ReadFile(%q) kind = %v, want config", p, kind)
		}
	}
}

func TestNewRejectsBadRoots(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	for _, root := range []string{"relative/dir", filepath.Join(dir, "missing"), file} {
		if _, err := New(root); err == nil {
			t.Fatalf("New(%q) succeeded", root)
		}
	}
}
