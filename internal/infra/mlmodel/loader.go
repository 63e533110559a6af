package mlmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Source opens the serialized artifact.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the artifact from the local filesystem.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

func (s FileSource) String() string { return "file://" + s.Path }

// ObjectStorageConfig locates the artifact in an S3 compatible bucket.
type ObjectStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// ObjectSource reads the artifact from object storage.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs a minio backed source.
func NewObjectSource(cfg ObjectStorageConfig) (*ObjectSource, error) {
	useSSL := strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "https")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Open fetches the object and confirms it exists.
func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}
	return obj, nil
}

func (s *ObjectSource) String() string { return "s3://" + s.bucket + "/" + s.key }

// Load reads, decodes and validates a forest. Any failure is returned as is;
// callers treat it as fatal.
func Load(ctx context.Context, src Source, expectedFeatures []string, logger *slog.Logger) (*Forest, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", src, err)
	}
	defer rc.Close()

	var artifact Artifact
	dec := json.NewDecoder(rc)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", src, err)
	}
	forest, err := NewForest(artifact, expectedFeatures)
	if err != nil {
		return nil, fmt.Errorf("validate model %s: %w", src, err)
	}
	logger.Info("irrigation model loaded",
		"component", "mlmodel",
		"source", src.String(),
		"version", forest.Version(),
		"kind", forest.Kind(),
		"trees", len(artifact.Trees),
	)
	return forest, nil
}

// sanitizeEndpoint strips scheme and path, as minio.New expects host[:port].
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
