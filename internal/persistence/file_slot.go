package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileSlot stores the token under a fixed key in a small JSON document on disk.
type FileSlot struct {
	fs   afero.Fs
	path string
	key  string
	mu   sync.Mutex
}

// NewFileSlot returns a slot backed by path on fs.
func NewFileSlot(fs afero.Fs, path, key string) *FileSlot {
	return &FileSlot{fs: fs, path: path, key: key}
}

// Load returns the token stored under the slot key.
func (f *FileSlot) Load() (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	token, ok := doc[f.key]
	return token, ok, nil
}

// Save writes the token, keeping any other keys in the document.
func (f *FileSlot) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[f.key] = token
	return f.write(doc)
}

// Clear drops the slot key. A missing file is already clear.
func (f *FileSlot) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := doc[f.key]; !ok {
		return nil
	}
	delete(doc, f.key)
	return f.write(doc)
}

func (f *FileSlot) read() (map[string]string, error) {
	raw, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	doc := map[string]string{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *FileSlot) write(doc map[string]string) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
