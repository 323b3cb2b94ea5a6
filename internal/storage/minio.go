package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/volume-uploader/backend/internal/models"
)

// MinioOptions configures a MinioStore.
type MinioOptions struct {
	Endpoint  string // "host:port" or "http(s)://host:port"
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// objectClient is the part of *minio.Client the store uses.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// MinioStore implements Store on an S3-compatible bucket. Object keys are
// the sanitised file names, so the bucket stays flat like a volume directory.
type MinioStore struct {
	mu       sync.Mutex
	pending  map[string]bool // keys with a put in flight
	client   objectClient
	bucket   string
	endpoint string
	now      func() time.Time
}

// NewMinioStore connects to the object store. The bucket is created lazily
// by Check or the first Save.
func NewMinioStore(opts MinioOptions) (*MinioStore, error) {
	endpoint, secure, err := normaliseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure || opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return newMinioStore(client, opts.Bucket, endpoint), nil
}

func newMinioStore(client objectClient, bucket, endpoint string) *MinioStore {
	return &MinioStore{
		pending:  make(map[string]bool),
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
		now:      time.Now,
	}
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}

// Location returns a minio:// URL for the bucket.
func (s *MinioStore) Location() string {
	return fmt.Sprintf("minio://%s/%s", s.endpoint, s.bucket)
}

// Check creates the bucket if it does not exist yet.
func (s *MinioStore) Check(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVolumeUnavailable, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrVolumeUnavailable, err)
	}
	return nil
}

// Save streams r into the bucket. The put is conditional on the key not
// existing, so a concurrent writer elsewhere makes it fail with
// ErrNameTaken instead of being overwritten.
func (s *MinioStore) Save(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error) {
	if err := s.Check(ctx); err != nil {
		return nil, err
	}

	key, err := s.reserve(ctx, name)
	if err != nil {
		return nil, err
	}
	defer s.release(key)

	opts := minio.PutObjectOptions{ContentType: "application/octet-stream"}
	opts.SetMatchETagExcept("*")

	info, err := s.client.PutObject(ctx, s.bucket, key, r, objectSize(r), opts)
	if err != nil {
		if isPreconditionFailed(err) {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, key)
		}
		return nil, fmt.Errorf("putting object: %w", err)
	}

	return &models.StoredFile{
		Name: key,
		Path: s.Location() + "/" + key,
		Size: info.Size,
	}, nil
}

// reserve picks the key for name and marks it pending until release.
// A key is taken if it exists in the bucket or another Save holds it.
func (s *MinioStore) reserve(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.pending[name]
	if !taken {
		_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
		switch {
		case err == nil:
			taken = true
		case minio.ToErrorResponse(err).Code != "NoSuchKey":
			return "", fmt.Errorf("stat object: %w", err)
		}
	}

	key := name
	if taken {
		key = timestampedName(name, s.now())
		if s.pending[key] {
			return "", fmt.Errorf("%w: %s", ErrNameTaken, key)
		}
	}
	s.pending[key] = true
	return key, nil
}

func (s *MinioStore) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
}

func isPreconditionFailed(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusPreconditionFailed || resp.Code == "PreconditionFailed"
}

// objectSize reports the length of r when it is known up front, so the
// client can send a single PUT. -1 means unknown.
func objectSize(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Size() int64 }:
		return v.Size()
	case interface{ Len() int }:
		return int64(v.Len())
	case interface{ Stat() (os.FileInfo, error) }:
		if fi, err := v.Stat(); err == nil && fi.Mode().IsRegular() {
			return fi.Size()
		}
	}
	return -1
}

// List returns the top-level objects of the bucket, newest first.
func (s *MinioStore) List(ctx context.Context) ([]models.FileRecord, error) {
	files := []models.FileRecord{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			if minio.ToErrorResponse(obj.Err).Code == "NoSuchBucket" {
				return []models.FileRecord{}, nil
			}
			return nil, fmt.Errorf("listing objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		files = append(files, models.FileRecord{
			Name:     obj.Key,
			Size:     obj.Size,
			Modified: obj.LastModified.Local().Format(models.ModifiedLayout),
		})
	}

	sortByModifiedDesc(files)
	return files, nil
}

var _ Store = (*MinioStore)(nil)
