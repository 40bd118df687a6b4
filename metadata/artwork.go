package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// MaxArtworkSize is the largest accepted artwork download.
const MaxArtworkSize = 2 << 20

var (
	ErrArtworkTooLarge = errors.New("artwork exceeds size limit")
	ErrNotAnImage      = errors.New("response is not a decodable image")
)

// ArtworkFetcher downloads cover images.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Fetcher struct {
	http *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}
}

// Fetch downloads url, rejecting bodies above MaxArtworkSize and anything
// that does not decode as an image.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: new request: %w", err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch artwork: unexpected response code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxArtworkSize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: read body: %w", err)
	}
	if len(data) > MaxArtworkSize {
		return nil, fmt.Errorf("fetch artwork: %w", ErrArtworkTooLarge)
	}
	_, err = imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fetch artwork: %w: %w", ErrNotAnImage, err)
	}
	return data, nil
}

// ArtworkStore persists cover images on disk, one file per item.
type ArtworkStore struct {
	dir string
}

func NewArtworkStore(dataDir string) (*ArtworkStore, error) {
	dir := filepath.Join(dataDir, "covers")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create covers dir: %w", err)
	}
	return &ArtworkStore{dir: dir}, nil
}

func (s *ArtworkStore) Path(itemID string) string {
	return filepath.Join(s.dir, itemID)
}

func (s *ArtworkStore) Exists(itemID string) bool {
	_, err := os.Stat(s.Path(itemID))
	return err == nil
}

// Save writes data atomically via a temp file rename.
func (s *ArtworkStore) Save(itemID string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, itemID+"-*")
	if err != nil {
		return fmt.Errorf("save artwork: create temp file: %w", err)
	}
	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save artwork: write: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save artwork: close: %w", err)
	}
	err = os.Rename(tmp.Name(), s.Path(itemID))
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save artwork: rename: %w", err)
	}
	return nil
}
