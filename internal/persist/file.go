package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

const fileExt = ".json.br"

// FileStore writes each key to <Dir>/<key>.json.br, brotli-compressed.
// Writes go through a temp file and rename so a crash never leaves a
// truncated snapshot behind.
type FileStore struct {
	Dir   string
	Level int

	mu sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir, Level: brotli.DefaultCompression}
}

func (f *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	defer fh.Close()

	data, err := io.ReadAll(brotli.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("persist: decompress %s: %w", path, err)
	}
	return data, nil
}

func (f *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(key)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, f.Level)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("persist: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("persist: compress: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("persist: mkdir %s: %w", f.Dir, err)
	}
	tmp, err := os.CreateTemp(f.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("persist: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist: rename %s: %w", path, err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(key)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("persist: remove %s: %w", path, err)
	}
	return nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("persist: invalid key %q", key)
	}
	return filepath.Join(f.Dir, key+fileExt), nil
}
