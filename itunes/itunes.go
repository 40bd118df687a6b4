// Package itunes is a client for the public iTunes Search API.
package itunes

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
	"github.com/juho05/harmonia-server/util"
)

var ErrUnexpectedResponseCode = errors.New("unexpected response code")

const maxAlbumLimit = 100

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

type Track struct {
	TrackName      string `json:"trackName"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName"`
	ArtworkURL100  string `json:"artworkUrl100"`
}

type Album struct {
	CollectionName string `json:"collectionName"`
	ArtistName     string `json:"artistName"`
	ArtworkURL100  string `json:"artworkUrl100"`
}

type searchResponse[T any] struct {
	ResultCount int `json:"resultCount"`
	Results     []T `json:"results"`
}

// SearchSong queries for the best matching song for term. It returns nil
// when nothing matches.
func (c *Client) SearchSong(ctx context.Context, term string) (*Track, error) {
	query := url.Values{
		"term":   {term},
		"media":  {"music"},
		"entity": {"song"},
		"limit":  {"1"},
	}
	res, err := search[Track](c, ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search song: %w", err)
	}
	return util.FirstOrNil(res.Results), nil
}

// SearchArtistAlbums queries for albums credited to artist. limit is
// clamped to [1, 100].
func (c *Client) SearchArtistAlbums(ctx context.Context, artist string, limit int) ([]Album, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxAlbumLimit {
		limit = maxAlbumLimit
	}
	query := url.Values{
		"term":      {artist},
		"media":     {"music"},
		"entity":    {"album"},
		"attribute": {"artistTerm"},
		"limit":     {strconv.Itoa(limit)},
	}
	res, err := search[Album](c, ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search artist albums: %w", err)
	}
	return res.Results, nil
}

func search[T any](c *Client, ctx context.Context, query url.Values) (searchResponse[T], error) {
	var res searchResponse[T]
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return res, fmt.Errorf("itunes new request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", harmonia.ServerName, harmonia.Version))
	resp, err := c.http.Do(req)
	if err != nil {
		return res, fmt.Errorf("itunes do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("itunes request: %w: %d", ErrUnexpectedResponseCode, resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil {
		return res, fmt.Errorf("itunes request: decode response: %w", err)
	}
	return res, nil
}

// UpgradeArtworkURL rewrites the 100x100 thumbnail URL the search API
// returns into its 600x600 variant. Unrecognized URLs pass through
// unchanged.
func UpgradeArtworkURL(artworkURL string) string {
	return strings.Replace(artworkURL, "100x100", "600x600", 1)
}
