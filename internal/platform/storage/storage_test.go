package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir)

	url, err := svc.Save(context.Background(), "abc.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/signatures/abc.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored bytes mismatch: %q", data)
	}
}

func TestSaveRejectsEmptyArtifact(t *testing.T) {
	svc := New(t.TempDir())
	if _, err := svc.Save(context.Background(), "x.png", nil); err == nil {
		t.Fatal("expected error for empty artifact")
	}
}

func TestSaveStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	svc := New(dir)

	url, err := svc.Save(context.Background(), "../../evil.png", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/signatures/evil.png" {
		t.Fatalf("expected traversal stripped, got %s", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "evil.png")); err != nil {
		t.Fatalf("file not written inside dir: %v", err)
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	decoded, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("decoded bytes mismatch")
	}
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"http://example.com/sig.png",
		"data:image/png;base64,",
		"data:image/png,notbase64",
	} {
		if _, err := DecodeDataURL(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
