package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"collection-merge/core/storage"

	"github.com/goccy/go-yaml"
	"github.com/minio/minio-go/v7"
)

// Sink stores named run outputs.
type Sink interface {
	// Write stores data under name, replacing any previous content.
	Write(ctx context.Context, name string, data []byte) error
	// List returns the names of stored outputs.
	List(ctx context.Context) ([]string, error)
}

// New builds the sink selected by cfg. The storage client is only required
// for the storage target.
func New(cfg Config, client storage.Client, bucket, region string) (Sink, error) {
	switch cfg.Target {
	case TargetDir, "":
		dir := cfg.Dir
		if dir == "" {
			dir = "data"
		}
		return &DirSink{Dir: dir}, nil
	case TargetStorage:
		if client == nil {
			return nil, fmt.Errorf("output target %q requires a storage client", cfg.Target)
		}
		return &StorageSink{Client: client, Bucket: bucket, Region: region, Prefix: cfg.Prefix}, nil
	default:
		return nil, fmt.Errorf("unknown output target %q", cfg.Target)
	}
}

// DirSink writes outputs as files in a local directory, created on demand.
type DirSink struct {
	Dir string
}

func (s *DirSink) Write(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, filepath.Base(name)), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *DirSink) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list output dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// StorageSink uploads outputs to a bucket under Prefix.
type StorageSink struct {
	Client storage.Client
	Bucket string
	Region string
	Prefix string
}

// Ensure creates the bucket when it is missing.
func (s *StorageSink) Ensure(ctx context.Context) error {
	return storage.EnsureBucket(ctx, s.Client, s.Bucket, s.Region)
}

func (s *StorageSink) key(name string) string {
	prefix := strings.Trim(s.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func (s *StorageSink) Write(ctx context.Context, name string, data []byte) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (s *StorageSink) List(ctx context.Context) ([]string, error) {
	prefix := strings.Trim(s.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	keys, err := storage.ListKeys(ctx, s.Client, s.Bucket, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(names)
	return names, nil
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// WriteJSON stores v as indented JSON.
func WriteJSON(ctx context.Context, sink Sink, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return sink.Write(ctx, name, append(data, '\n'))
}

// WriteYAML stores v as YAML.
func WriteYAML(ctx context.Context, sink Sink, name string, v any) error {
	data, err := yaml.MarshalWithOptions(v, yaml.UseJSONMarshaler())
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return sink.Write(ctx, name, data)
}
