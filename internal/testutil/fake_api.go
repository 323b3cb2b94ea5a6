package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/volume-uploader/backend/internal/models"
)

// UploadCall records one FakeAPI.Upload invocation.
type UploadCall struct {
	Name string
	Body []byte
}

// FakeAPI satisfies widget.API. UploadFunc and ListFunc decide the
// responses; unset funcs answer with success and an empty list.
type FakeAPI struct {
	UploadFunc func(ctx context.Context, name string, body []byte) (*models.UploadResponse, error)
	ListFunc   func(ctx context.Context, call int) (*models.ListResponse, error)

	mu        sync.Mutex
	uploads   []UploadCall
	listCalls int
}

func (f *FakeAPI) Upload(ctx context.Context, name string, body io.Reader) (*models.UploadResponse, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, UploadCall{Name: name, Body: data})
	fn := f.UploadFunc
	f.mu.Unlock()

	if fn == nil {
		return &models.UploadResponse{Success: true, Message: "ok"}, nil
	}
	return fn(ctx, name, data)
}

func (f *FakeAPI) ListFiles(ctx context.Context) (*models.ListResponse, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	fn := f.ListFunc
	f.mu.Unlock()

	if fn == nil {
		return &models.ListResponse{Success: true, Files: []models.FileRecord{}}, nil
	}
	return fn(ctx, call)
}

// Uploads returns the recorded upload calls.
func (f *FakeAPI) Uploads() []UploadCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]UploadCall(nil), f.uploads...)
}

// ListCalls returns how many times ListFiles was called.
func (f *FakeAPI) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// Requests returns the total number of API calls.
func (f *FakeAPI) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls + len(f.uploads)
}
