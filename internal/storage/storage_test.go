package storage_test

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"colorchecker-service/internal/storage"
)

func TestLocalFSRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := storage.LocalFS{Root: t.TempDir()}

	exists, err := fs.Exists(ctx, storage.ContainerOutputs, "job1/result.jpg")
	if err != nil || exists {
		t.Fatalf("fresh store: exists=%v err=%v", exists, err)
	}

	if err := fs.Put(ctx, storage.ContainerOutputs, "job1/result.jpg", []byte("bytes"), "image/jpeg"); err != nil {
		t.Fatalf("put: %v", err)
	}

	exists, err = fs.Exists(ctx, storage.ContainerOutputs, "job1/result.jpg")
	if err != nil || !exists {
		t.Fatalf("after put: exists=%v err=%v", exists, err)
	}

	data, err := fs.Get(ctx, storage.ContainerOutputs, "job1/result.jpg")
	if err != nil || !bytes.Equal(data, []byte("bytes")) {
		t.Fatalf("get: data=%q err=%v", data, err)
	}
}

func TestLocalFSGetMissing(t *testing.T) {
	fs := storage.LocalFS{Root: t.TempDir()}
	_, err := fs.Get(context.Background(), storage.ContainerUploads, "nope.png")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLocalFSRejectsTraversal(t *testing.T) {
	fs := storage.LocalFS{Root: t.TempDir()}
	if err := fs.Put(context.Background(), storage.ContainerUploads, "../../etc/passwd", []byte("x"), ""); err == nil {
		t.Fatal("expected traversal rejection")
	}
}

func TestSignerVerify(t *testing.T) {
	s := storage.NewSigner([]byte("secret"), "http://localhost:8080")

	signed, expires := s.SignedURL(storage.ContainerUploads, "job1/image.jpg", storage.PermWrite, time.Hour)
	if time.Until(expires) <= 0 {
		t.Fatal("expiry not in the future")
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	q := u.Query()

	if err := s.Verify(storage.ContainerUploads, "job1/image.jpg", storage.PermWrite, q.Get("exp"), q.Get("sig")); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// scope is bound to permission, container and key
	if err := s.Verify(storage.ContainerUploads, "job1/image.jpg", storage.PermRead, q.Get("exp"), q.Get("sig")); err == nil {
		t.Error("write signature accepted for read")
	}
	if err := s.Verify(storage.ContainerOutputs, "job1/image.jpg", storage.PermWrite, q.Get("exp"), q.Get("sig")); err == nil {
		t.Error("signature accepted for wrong container")
	}
	if err := s.Verify(storage.ContainerUploads, "job2/image.jpg", storage.PermWrite, q.Get("exp"), q.Get("sig")); err == nil {
		t.Error("signature accepted for wrong key")
	}
}

func TestSignerExpiry(t *testing.T) {
	s := storage.NewSigner([]byte("secret"), "http://localhost:8080")
	signed, _ := s.SignedURL(storage.ContainerOutputs, "k", storage.PermRead, -time.Minute)
	u, _ := url.Parse(signed)
	q := u.Query()
	if err := s.Verify(storage.ContainerOutputs, "k", storage.PermRead, q.Get("exp"), q.Get("sig")); err == nil {
		t.Fatal("expired signature accepted")
	}
}
