package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	sc "github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	return cfg
}

// fakeStore implements storage.Store in memory. Objects are tracked by key
// so upload/list/delete round trips can be exercised without a store.
type fakeStore struct {
	objects map[string]storage.ObjectInfo

	presignPutErr error
	presignGetErr error
	deleteErr     error

	deleted []string

	lastPutTTL time.Duration
	lastGetTTL time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storage.ObjectInfo{}}
}

func (f *fakeStore) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*storage.Capability, error) {
	if f.presignPutErr != nil {
		return nil, f.presignPutErr
	}
	f.lastPutTTL = ttl
	now := time.Now()
	return &storage.Capability{
		URL:       "https://signed.example/put/" + key,
		Method:    "PUT",
		Key:       key,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (*storage.Capability, error) {
	if f.presignGetErr != nil {
		return nil, f.presignGetErr
	}
	f.lastGetTTL = ttl
	now := time.Now()
	return &storage.Capability{
		URL:       "https://signed.example/get/" + key,
		Method:    "GET",
		Key:       key,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) Head(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	info, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrNotFound, key)
	}
	return &info, nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	out := make([]storage.ObjectInfo, 0)
	for k, info := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, info)
		}
	}
	return out, nil
}

func (f *fakeStore) put(key string, size int64) {
	f.objects[key] = storage.ObjectInfo{Key: key, Size: size, LastModified: time.Now()}
}

func TestRequestUpload_Success(t *testing.T) {
	store := newFakeStore()
	svc := NewFileService(store, testConfig(), testLogger())

	ticket, err := svc.RequestUpload(context.Background(), "u1", "report.pdf")
	if err != nil {
		t.Fatalf("RequestUpload: %v", err)
	}
	if ticket.Key != "users/u1/report.pdf" {
		t.Fatalf("key mismatch: %q", ticket.Key)
	}
	if ticket.UploadURL != "https://signed.example/put/users/u1/report.pdf" {
		t.Fatalf("url mismatch: %q", ticket.UploadURL)
	}
	if store.lastPutTTL != time.Hour {
		t.Fatalf("upload ttl mismatch: %v", store.lastPutTTL)
	}
	if ticket.ExpiresAt.IsZero() {
		t.Fatalf("expiry not set")
	}
}

func TestRequestUpload_RejectsTraversal(t *testing.T) {
	svc := NewFileService(newFakeStore(), testConfig(), testLogger())

	_, err := svc.RequestUpload(context.Background(), "u1", "../u2/stolen.txt")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected common.ErrValidation, got %v", err)
	}
}

func TestRequestUpload_StoreError(t *testing.T) {
	store := newFakeStore()
	store.presignPutErr = fmt.Errorf("%w: presign put", common.ErrStoreOperation)
	svc := NewFileService(store, testConfig(), testLogger())

	_, err := svc.RequestUpload(context.Background(), "u1", "a.txt")
	if !errors.Is(err, common.ErrStoreOperation) {
		t.Fatalf("expected common.ErrStoreOperation, got %v", err)
	}
}

func TestUploadThenList_RoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewFileService(store, testConfig(), testLogger())

	ticket, err := svc.RequestUpload(context.Background(), "u1", "data.bin")
	if err != nil {
		t.Fatalf("RequestUpload: %v", err)
	}

	// the client performs the PUT directly against the store
	store.put(ticket.Key, 4096)

	entries, err := svc.ListFiles(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(entries))
	}
	if entries[0].ID != ticket.Key {
		t.Fatalf("key mismatch: %q vs %q", entries[0].ID, ticket.Key)
	}
	if entries[0].Size != 4096 {
		t.Fatalf("size mismatch: %d", entries[0].Size)
	}
}

func TestListFiles_EmptyNamespace(t *testing.T) {
	svc := NewFileService(newFakeStore(), testConfig(), testLogger())

	entries, err := svc.ListFiles(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty slice, got %#v", entries)
	}
}

func TestListFiles_IsolatedBetweenIdentities(t *testing.T) {
	store := newFakeStore()
	store.put("users/u1/mine.txt", 1)
	store.put("users/u2/theirs.txt", 2)
	svc := NewFileService(store, testConfig(), testLogger())

	entries, err := svc.ListFiles(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "users/u1/mine.txt" {
		t.Fatalf("namespace leak: %#v", entries)
	}
}

func TestDeleteFile_OwnershipEnforced(t *testing.T) {
	store := newFakeStore()
	store.put("users/u2/theirs.txt", 1)
	svc := NewFileService(store, testConfig(), testLogger())

	err := svc.DeleteFile(context.Background(), "u1", "users/u2/theirs.txt")
	if !errors.Is(err, common.ErrNamespaceViolation) {
		t.Fatalf("expected common.ErrNamespaceViolation, got %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("delete must not reach the store on a foreign key")
	}
}

func TestDeleteFile_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.put("users/u1/a.txt", 1)
	svc := NewFileService(store, testConfig(), testLogger())

	if err := svc.DeleteFile(context.Background(), "u1", "users/u1/a.txt"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteFile(context.Background(), "u1", "users/u1/a.txt"); err != nil {
		t.Fatalf("second delete must also succeed: %v", err)
	}
}
