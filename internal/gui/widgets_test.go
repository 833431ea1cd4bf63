package gui

import (
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/deeptranslate/internal/testutil"
)

func TestImagePreview_Load(t *testing.T) {
	test.NewTempApp(t)
	dir := t.TempDir()

	p := NewImagePreview()
	path := testutil.CreateTestPNG(t, dir)
	p.Load(path)

	if p.Path() != path {
		t.Errorf("Path() = %q, want %q", p.Path(), path)
	}
	if p.caption.Text != "scan.png (4×4)" {
		t.Errorf("Unexpected caption %q", p.caption.Text)
	}
	if p.picture.File != path {
		t.Errorf("Picture not loaded from %s", path)
	}

	p.Clear()
	if p.Path() != "" || p.picture.File != "" || p.caption.Text != noPreviewText {
		t.Error("Clear() did not reset the preview")
	}
}

func TestImagePreview_LoadInvalid(t *testing.T) {
	test.NewTempApp(t)

	notImage := filepath.Join(t.TempDir(), "notes.png")
	testutil.CreateTestFile(t, notImage, []byte("plain text"))

	p := NewImagePreview()
	p.Load(notImage)

	if p.Path() != notImage {
		t.Errorf("Expected the path to be kept, got %q", p.Path())
	}
	if p.picture.File != "" {
		t.Error("Expected no picture for an undecodable file")
	}
	if !strings.HasPrefix(p.caption.Text, "无法解码图片") {
		t.Errorf("Unexpected caption %q", p.caption.Text)
	}

	p.Load("")
	if p.Path() != "" {
		t.Error("Empty path should clear the preview")
	}
}
