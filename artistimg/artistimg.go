// Package artistimg resolves profile images for artists. Artists are not
// first-class records, so everything is keyed by a normalized form of the
// artist name and the chosen image is remembered in the avatar table.
package artistimg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/juho05/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	harmonia "github.com/juho05/harmonia-server"
	"github.com/juho05/harmonia-server/coalesce"
	"github.com/juho05/harmonia-server/itunes"
	"github.com/juho05/harmonia-server/lastfm"
	"github.com/juho05/harmonia-server/metadata"
	"github.com/juho05/harmonia-server/repos"
	"github.com/juho05/harmonia-server/util"
)

// maxConcurrentFetches caps image downloads across the whole library so a
// bulk refresh cannot saturate the connection.
const maxConcurrentFetches = 3

var whitespaceRunRegex = regexp.MustCompile(`\s+`)

// Key normalizes an artist name for avatar lookups: trimmed, lowercased,
// internal whitespace collapsed.
func Key(artist string) string {
	return whitespaceRunRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(artist)), " ")
}

// Candidate is one possible artist image.
type Candidate struct {
	// URL is the image as reported by the provider.
	URL string `json:"url"`
	// FullSizeURL identifies the underlying artwork independent of the
	// resolution variant in URL.
	FullSizeURL string `json:"fullSizeUrl"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (c Candidate) resolution() int {
	return c.Width * c.Height
}

var resolutionRegex = regexp.MustCompile(`(\d{2,5})x(\d{2,5})`)

// parseCandidate extracts the WxH resolution token from the last path
// component of rawURL. Candidates sharing everything but that component
// resolve to the same FullSizeURL.
func parseCandidate(rawURL string) Candidate {
	c := Candidate{URL: rawURL, FullSizeURL: rawURL}
	slash := strings.LastIndex(rawURL, "/")
	if slash < 0 {
		return c
	}
	last := rawURL[slash+1:]
	m := resolutionRegex.FindStringSubmatch(last)
	if m == nil {
		return c
	}
	c.Width, _ = strconv.Atoi(m[1])
	c.Height, _ = strconv.Atoi(m[2])
	c.FullSizeURL = rawURL[:slash+1]
	return c
}

type Service struct {
	db      repos.DB
	store   *Store
	fetcher metadata.ArtworkFetcher
	itunes  *itunes.Client
	lastfm  *lastfm.LastFm

	group coalesce.Group[string]
	sem   *semaphore.Weighted
}

func NewService(db repos.DB, store *Store, itunesClient *itunes.Client, lastfmClient *lastfm.LastFm) *Service {
	return &Service{
		db:      db,
		store:   store,
		fetcher: metadata.NewFetcher(),
		itunes:  itunesClient,
		lastfm:  lastfmClient,
		sem:     semaphore.NewWeighted(maxConcurrentFetches),
	}
}

// BestImage returns the path of the stored image for artist, fetching and
// persisting one if none exists yet. It returns an empty path when no
// provider has an image. Concurrent calls for the same artist share a
// single fetch.
func (s *Service) BestImage(ctx context.Context, artist string) (string, error) {
	key := Key(artist)
	if key == "" {
		return "", nil
	}
	return s.group.Do(key, func() (string, error) {
		avatar, err := s.db.Avatar().FindByKey(ctx, key)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return "", fmt.Errorf("find avatar: %w", err)
		}
		if avatar != nil {
			if avatar.ImagePath != nil {
				return *avatar.ImagePath, nil
			}
			// a locked avatar without an image means the user cleared it
			if avatar.Locked {
				return "", nil
			}
		}
		return s.fetchBestImage(ctx, key, artist)
	})
}

func (s *Service) fetchBestImage(ctx context.Context, key, artist string) (string, error) {
	err := s.sem.Acquire(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("acquire fetch permit: %w", err)
	}
	defer s.sem.Release(1)

	url, source := s.findImageURL(ctx, artist)
	if url == "" {
		return "", nil
	}

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warnf("artistimg: fetch image for %s: %s", artist, err)
		return "", nil
	}
	path, err := s.store.Save(data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	err = s.db.Avatar().Upsert(ctx, repos.UpsertAvatarParams{
		ArtistKey:  key,
		ArtistName: artist,
		ImagePath:  util.ToPtr(path),
		Source:     source,
		SourceID:   util.ToPtr(url),
	})
	if err != nil {
		return "", fmt.Errorf("persist avatar: %w", err)
	}
	log.Infof("artistimg: stored image for %s from %s", artist, source)
	return path, nil
}

// findImageURL picks the best image URL: the highest-resolution album
// cover from iTunes, falling back to the last.fm artist page image.
func (s *Service) findImageURL(ctx context.Context, artist string) (url, source string) {
	candidates, err := s.Candidates(ctx, artist, 10)
	if err != nil {
		log.Warnf("artistimg: candidates for %s: %s", artist, err)
	}
	if len(candidates) > 0 {
		return candidates[0].URL, "itunes"
	}
	if s.lastfm != nil && s.lastfm.Enabled() {
		imageURL, err := s.lastfm.GetArtistImageURL(ctx, artist)
		if err != nil {
			log.Warnf("artistimg: last.fm image for %s: %s", artist, err)
		} else if imageURL != "" {
			return imageURL, "lastfm"
		}
	}
	return "", ""
}

// Candidates queries for up to limit possible images for artist, ranked by
// resolution descending. Entries resolving to the same full-size URL are
// deduplicated, keeping the higher-resolution one. Results are not cached.
func (s *Service) Candidates(ctx context.Context, artist string, limit int) ([]Candidate, error) {
	albums, err := s.itunes.SearchArtistAlbums(ctx, artist, limit)
	if err != nil {
		return nil, fmt.Errorf("candidates: %w", err)
	}

	byFullSize := make(map[string]Candidate, len(albums))
	for _, album := range albums {
		if album.ArtworkURL100 == "" {
			continue
		}
		candidate := parseCandidate(itunes.UpgradeArtworkURL(album.ArtworkURL100))
		existing, ok := byFullSize[candidate.FullSizeURL]
		if !ok || candidate.resolution() > existing.resolution() {
			byFullSize[candidate.FullSizeURL] = candidate
		}
	}

	candidates := make([]Candidate, 0, len(byFullSize))
	for _, c := range byFullSize {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].resolution() != candidates[j].resolution() {
			return candidates[i].resolution() > candidates[j].resolution()
		}
		return candidates[i].URL < candidates[j].URL
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// RefreshAll fetches images for every artist in the library that has none
// yet. Locked avatars are left alone. At most maxConcurrentFetches
// downloads run at a time.
func (s *Service) RefreshAll(ctx context.Context) error {
	names, err := s.db.Item().FindArtistNames(ctx)
	if err != nil {
		return fmt.Errorf("refresh artist images: %w", err)
	}

	keys := make([]string, 0, len(names))
	keyedNames := make([]string, 0, len(names))
	for _, name := range names {
		key := Key(name)
		if key == "" {
			continue
		}
		keys = append(keys, key)
		keyedNames = append(keyedNames, name)
	}

	// artists whose avatar is already decided are filtered out in one
	// batch lookup instead of one query each
	avatars, err := s.db.Avatar().FindByKeys(ctx, keys)
	if err != nil {
		return fmt.Errorf("refresh artist images: %w", err)
	}
	settled := make(map[string]bool, len(avatars))
	for _, avatar := range avatars {
		settled[avatar.ArtistKey] = avatar.ImagePath != nil || avatar.Locked
	}

	var group errgroup.Group
	for i, name := range keyedNames {
		if settled[keys[i]] {
			continue
		}
		group.Go(func() error {
			_, err := s.BestImage(ctx, name)
			if err != nil {
				log.Warnf("artistimg: refresh %s: %s", name, err)
			}
			return nil
		})
	}
	return group.Wait()
}

// Delete removes the stored image and avatar record for artist. The next
// BestImage call fetches a fresh image.
func (s *Service) Delete(ctx context.Context, artist string) error {
	key := Key(artist)
	if key == "" {
		return repos.NewError("empty artist name", repos.ErrInvalidParams, nil)
	}
	avatar, err := s.db.Avatar().FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete artist image: %w", err)
	}
	if avatar.ImagePath != nil {
		err = os.Remove(*avatar.ImagePath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("artistimg: remove image file for %s: %s", artist, err)
		}
	}
	return s.db.Avatar().DeleteByKey(ctx, key)
}

// SetLocked marks the avatar for artist as user-chosen so automatic
// refreshes leave it alone, or releases it again.
func (s *Service) SetLocked(ctx context.Context, artist string, locked bool) error {
	key := Key(artist)
	if key == "" {
		return repos.NewError("empty artist name", repos.ErrInvalidParams, nil)
	}
	return s.db.Avatar().SetLocked(ctx, key, artist, locked)
}

// Store persists artist images on disk. File names are generated ids; the
// authoritative path lives in the avatar table.
type Store struct {
	dir string
}

func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "artists")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create artists dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data to a freshly named file and returns its path.
func (s *Store) Save(data []byte) (string, error) {
	path := filepath.Join(s.dir, harmonia.GenIDAvatar())
	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return "", fmt.Errorf("save artist image: create temp file: %w", err)
	}
	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save artist image: write: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save artist image: close: %w", err)
	}
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save artist image: rename: %w", err)
	}
	return path, nil
}
