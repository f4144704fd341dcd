package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifeboard/internal/progress"
)

func TestFileStoreUploadPhoto(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	newKeyID = func() string { return "fixed" }
	t.Cleanup(func() { newKeyID = defaultKeyID })

	url, err := store.UploadPhoto(context.Background(), "u1", progress.Photo{
		Filename:    "Beach.JPG",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("jpeg-bytes"),
	})
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if want := "http://localhost:8080/static/diary/u1/fixed.jpg"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "diary", "u1", "fixed.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("stored %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", "../etc/passwd", "..", "  "} {
		if _, err := store.Write(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("Write(%q) succeeded", key)
		}
	}
}

func TestFileStoreCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.txt", strings.NewReader("x")); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPhotoKeyExtension(t *testing.T) {
	newKeyID = func() string { return "id" }
	t.Cleanup(func() { newKeyID = defaultKeyID })

	cases := []struct {
		name  string
		photo progress.Photo
		want  string
	}{
		{"jpeg", progress.Photo{Filename: "a.jpeg", ContentType: "image/jpeg"}, "diary/u/id.jpg"},
		{"type wins over name", progress.Photo{Filename: "a.html", ContentType: "image/png"}, "diary/u/id.png"},
		{"webp", progress.Photo{Filename: "blob", ContentType: "image/webp"}, "diary/u/id.webp"},
		{"heic", progress.Photo{Filename: "IMG_1.HEIC", ContentType: "image/heic"}, "diary/u/id.heic"},
		{"unsupported type", progress.Photo{Filename: "x.html", ContentType: "text/html"}, "diary/u/id"},
		{"none", progress.Photo{}, "diary/u/id"},
	}
	for _, tc := range cases {
		if got := photoKey("u", tc.photo); got != tc.want {
			t.Fatalf("%s: photoKey = %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := photoKey("../x", progress.Photo{}); strings.Contains(got, "..") {
		t.Fatalf("owner not sanitized: %q", got)
	}
}
