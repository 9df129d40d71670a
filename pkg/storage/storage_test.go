package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// fakeS3 keeps objects in a map keyed by object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[*in.Key] = b
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, *in.Key)
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func writeArtifact(t *testing.T, s Store, name, data string) {
	t.Helper()
	w, err := s.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		t.Fatalf("Write(%s): %v", name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%s): %v", name, err)
	}
}

func readArtifact(t *testing.T, s Store, name string) string {
	t.Helper()
	r, err := s.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("Open(%s): %v", name, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	if _, err := s.Open(ctx, "kb.index"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open missing err = %v, want os.ErrNotExist", err)
	}
	if ok, err := s.Exists(ctx, "kb.index"); err != nil || ok {
		t.Fatalf("Exists missing = %v, %v", ok, err)
	}

	writeArtifact(t, s, "kb.index", "v1")
	writeArtifact(t, s, "kb.index", "v2")
	if got := readArtifact(t, s, "kb.index"); got != "v2" {
		t.Errorf("content = %q, want v2", got)
	}
	if ok, _ := s.Exists(ctx, "kb.index"); !ok {
		t.Error("Exists = false after write")
	}

	if err := s.Remove(ctx, "kb.index"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "kb.index"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if ok, _ := s.Exists(ctx, "kb.index"); ok {
		t.Error("Exists = true after remove")
	}
}

func TestLocalStore(t *testing.T) {
	s, err := NewLocal(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestLocalStoreNoPartialArtifact(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w, err := s.Create(context.Background(), "kb.meta")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(w, "partial")
	if ok, _ := s.Exists(context.Background(), "kb.meta"); ok {
		t.Error("artifact visible before Close")
	}
	_ = w.Close()
	if ok, _ := s.Exists(context.Background(), "kb.meta"); !ok {
		t.Error("artifact missing after Close")
	}
}

func TestS3Store(t *testing.T) {
	fake := newFakeS3()
	s := NewS3(fake, "bucket", "agri")
	testStore(t, s)

	writeArtifact(t, s, "kb.meta", "x")
	if _, ok := fake.objects["agri/kb.meta"]; !ok {
		t.Errorf("object keys = %v, want agri/kb.meta", fake.objects)
	}
	if got := s.String(); got != "s3://bucket/agri" {
		t.Errorf("String() = %q", got)
	}
}

func TestS3StorePutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("denied")
	s := NewS3(fake, "bucket", "")
	w, _ := s.Create(context.Background(), "kb.index")
	_, _ = w.Write([]byte("data"))
	if err := w.Close(); err == nil {
		t.Fatal("Close err = nil, want put error")
	}
}
