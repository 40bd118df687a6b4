// Package musicbrainz is a client for the MusicBrainz web service.
// MusicBrainz enforces one request per second per client, so all calls
// share a rate limiter.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	harmonia "github.com/juho05/harmonia-server"
)

var ErrUnexpectedResponseCode = errors.New("unexpected response code")

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
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
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type Recording struct {
	Title         string `json:"title"`
	ArtistCredits []struct {
		Name string `json:"name"`
	} `json:"artist-credit"`
	Releases []struct {
		Title string `json:"title"`
	} `json:"releases"`
}

// Artist returns the first credited artist name or an empty string.
func (r Recording) Artist() string {
	if len(r.ArtistCredits) == 0 {
		return ""
	}
	return r.ArtistCredits[0].Name
}

// Release returns the first release title or an empty string.
func (r Recording) Release() string {
	if len(r.Releases) == 0 {
		return ""
	}
	return r.Releases[0].Title
}

type recordingResponse struct {
	Recordings []Recording `json:"recordings"`
}

// SearchRecording queries for the best matching recording of title,
// optionally constrained to artist. It returns nil when nothing matches.
func (c *Client) SearchRecording(ctx context.Context, title string, artist *string) (*Recording, error) {
	search := fmt.Sprintf("recording:%q", title)
	if artist != nil && *artist != "" {
		search += fmt.Sprintf(" AND artist:%q", *artist)
	}
	query := url.Values{
		"query": {search},
		"fmt":   {"json"},
		"limit": {"1"},
	}

	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("search recording: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/recording?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("search recording: new request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", harmonia.ServerName, harmonia.Version))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search recording: do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search recording: %w: %d", ErrUnexpectedResponseCode, resp.StatusCode)
	}

	var res recordingResponse
	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil {
		return nil, fmt.Errorf("search recording: decode response: %w", err)
	}
	if len(res.Recordings) == 0 {
		return nil, nil
	}
	recording := res.Recordings[0]
	return &recording, nil
}
