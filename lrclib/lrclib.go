// Package lrclib is a client for the LRCLIB lyrics API.
package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	harmonia "github.com/juho05/harmonia-server"
)

var ErrUnexpectedResponseCode = errors.New("unexpected response code")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
	}
}

type Lyrics struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	PlainLyrics  *string `json:"plainLyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

// HasSynced reports whether the result carries non-empty synced lyrics.
func (l Lyrics) HasSynced() bool {
	return l.SyncedLyrics != nil && strings.TrimSpace(*l.SyncedLyrics) != ""
}

// HasPlain reports whether the result carries non-empty plain lyrics.
func (l Lyrics) HasPlain() bool {
	return l.PlainLyrics != nil && strings.TrimSpace(*l.PlainLyrics) != ""
}

// Get fetches lyrics for an exact track signature. album may be empty and
// durationSeconds may be 0 to leave the corresponding parameter out of the
// request. It returns nil when no match exists.
func (c *Client) Get(ctx context.Context, artist, title, album string, durationSeconds int) (*Lyrics, error) {
	query := url.Values{
		"artist_name": {artist},
		"track_name":  {title},
	}
	if album != "" {
		query.Set("album_name", album)
	}
	if durationSeconds > 0 {
		query.Set("duration", strconv.Itoa(durationSeconds))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/get?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("get lyrics: new request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", harmonia.ServerName, harmonia.Version))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get lyrics: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get lyrics: %w: %d", ErrUnexpectedResponseCode, resp.StatusCode)
	}

	var lyrics Lyrics
	err = json.NewDecoder(resp.Body).Decode(&lyrics)
	if err != nil {
		return nil, fmt.Errorf("get lyrics: decode response: %w", err)
	}
	return &lyrics, nil
}
