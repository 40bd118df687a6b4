package lyrics

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists lyrics on disk, one .lrc file per item.
type Store struct {
	dir string
}

func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "lyrics")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create lyrics dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Path(itemID string) string {
	return filepath.Join(s.dir, itemID+".lrc")
}

func (s *Store) Exists(itemID string) bool {
	_, err := os.Stat(s.Path(itemID))
	return err == nil
}

func (s *Store) Read(itemID string) (string, error) {
	data, err := os.ReadFile(s.Path(itemID))
	if err != nil {
		return "", fmt.Errorf("read lyrics: %w", err)
	}
	return string(data), nil
}

// Save durably writes text and returns the stored path. The write goes
// through a synced temp file rename so a crash never leaves a partial
// lyrics file behind.
func (s *Store) Save(itemID, text string) (string, error) {
	tmp, err := os.CreateTemp(s.dir, itemID+"-*")
	if err != nil {
		return "", fmt.Errorf("save lyrics: create temp file: %w", err)
	}
	_, err = tmp.WriteString(text)
	if err == nil {
		err = tmp.Sync()
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save lyrics: write: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save lyrics: close: %w", err)
	}
	path := s.Path(itemID)
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save lyrics: rename: %w", err)
	}
	return path, nil
}
