package kvstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileExt = ".cache"

/*
File stores each entry as one file under a directory, so cached data
survives process restarts without any external service.

The key is hex-encoded into the filename. That keeps arbitrary keys
(colons, slashes, unicode) filesystem-safe and lets Keys recover the
original key from the directory listing without a separate index.
*/
type File struct {
	mu  sync.Mutex
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, hex.EncodeToString([]byte(key))+fileExt)
}

func (f *File) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cache file: %w", err)
	}
	return string(data), true, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (f *File) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache dir: %w", err)
	}

	var keys []string
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimSuffix(name, fileExt))
		if err != nil {
			// Not one of ours; leave it alone.
			continue
		}
		key := string(raw)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
