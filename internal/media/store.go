package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Kind identifies an asset family.
type Kind int

const (
	Avatar Kind = iota
	Banner
)

func (k Kind) String() string {
	if k == Banner {
		return "banner"
	}
	return "avatar"
}

// Store persists downloaded assets and maps them to references the content
// layer can serve.
type Store interface {
	Write(ctx context.Context, kind Kind, name string, data []byte) error
	Ref(kind Kind, name string) string
	Clear(ctx context.Context) error
}

// Dirs names the per-kind sub-directories, e.g. "avatars" and "banners".
type Dirs struct {
	Avatars string
	Banners string
}

func (d Dirs) of(kind Kind) string {
	if kind == Banner {
		return d.Banners
	}
	return d.Avatars
}

// LocalStore writes assets under root/<dir>/<name> on the filesystem and
// references them as /<dir>/<name>.
type LocalStore struct {
	root string
	dirs Dirs
}

// NewLocalStore returns a filesystem store rooted at root (e.g. "public").
func NewLocalStore(root string, dirs Dirs) *LocalStore {
	return &LocalStore{root: root, dirs: dirs}
}

// Path returns the filesystem path an asset is written to.
func (s *LocalStore) Path(kind Kind, name string) string {
	return filepath.Join(s.root, s.dirs.of(kind), filepath.Base(name))
}

func (s *LocalStore) Write(_ context.Context, kind Kind, name string, data []byte) error {
	p := s.Path(kind, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating asset directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *LocalStore) Ref(kind Kind, name string) string {
	return "/" + path.Join(s.dirs.of(kind), path.Base(name))
}

// Clear removes every file in both asset directories. Missing directories
// are fine.
func (s *LocalStore) Clear(_ context.Context) error {
	var errs []error
	for _, dir := range []string{s.dirs.Avatars, s.dirs.Banners} {
		full := filepath.Join(s.root, dir)
		entries, err := os.ReadDir(full)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if err := os.Remove(filepath.Join(full, e.Name())); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// GCSStore writes assets to a Cloud Storage bucket under
// <prefix><dir>/<name> and references them by public URL.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
	dirs   Dirs
}

// NewGCSStore returns a bucket-backed store. prefix may be empty.
func NewGCSStore(client *storage.Client, bucket, prefix string, dirs Dirs) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, prefix: prefix, dirs: dirs}
}

func (s *GCSStore) objectName(kind Kind, name string) string {
	return s.prefix + path.Join(s.dirs.of(kind), path.Base(name))
}

func (s *GCSStore) Write(ctx context.Context, kind Kind, name string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(s.objectName(kind, name)).NewWriter(ctx)
	w.ContentType = "image/svg+xml"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}
	return nil
}

func (s *GCSStore) Ref(kind Kind, name string) string {
	return "https://storage.googleapis.com/" + s.bucket + "/" + s.objectName(kind, name)
}

// Clear deletes every object under both asset prefixes.
func (s *GCSStore) Clear(ctx context.Context) error {
	bucket := s.client.Bucket(s.bucket)
	for _, dir := range []string{s.dirs.Avatars, s.dirs.Banners} {
		it := bucket.Objects(ctx, &storage.Query{Prefix: s.prefix + dir + "/"})
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				return fmt.Errorf("listing %s: %w", dir, err)
			}
			if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
				return fmt.Errorf("deleting %s: %w", attrs.Name, err)
			}
		}
	}
	return nil
}
