package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// IniStore persists the GUI layout settings text.
type IniStore interface {
	Load() (string, error)
	Save(data string) error
}

// MemoryIniStore keeps settings in memory.
type MemoryIniStore struct {
	Data  string
	Saves int
}

func (s *MemoryIniStore) Load() (string, error) { return s.Data, nil }

func (s *MemoryIniStore) Save(data string) error {
	s.Data = data
	s.Saves++
	return nil
}

// FileIniStore keeps settings in a file. A missing file loads as empty.
type FileIniStore struct {
	Path string
}

func (s FileIniStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Path, err)
	}
	return string(data), nil
}

// Save replaces the file through a temporary sibling.
func (s FileIniStore) Save(data string) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
