// Package lastfm implements the small slice of the last.fm API the server
// needs: resolving an artist page and scraping its open-graph image, which
// is the only full-resolution artist picture last.fm still exposes.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/juho05/log"
	"golang.org/x/net/html"

	harmonia "github.com/juho05/harmonia-server"
)

var (
	ErrUnexpectedResponseCode = errors.New("unexpected response code")
	ErrUnexpectedResponseBody = errors.New("unexpected response body")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrNotFound               = errors.New("not found")
)

const defaultBaseURL = "https://ws.audioscrobbler.com/2.0"

type LastFm struct {
	// BaseURL is the API endpoint, overridable for tests.
	BaseURL string

	apiKey string
	http   *http.Client
}

func New(apiKey string) *LastFm {
	return &LastFm{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (l *LastFm) Enabled() bool {
	return l.apiKey != ""
}

type ArtistInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (l *LastFm) GetArtistInfo(ctx context.Context, name string) (ArtistInfo, error) {
	params := url.Values{
		"artist":      {name},
		"autocorrect": {"1"},
	}
	log.Tracef("fetching artist info for %s from last.fm...", name)
	res, err := request[ArtistInfo](l, ctx, "artist.getinfo", "artist", params)
	if err != nil {
		return ArtistInfo{}, fmt.Errorf("get artist info: %w", err)
	}
	return res, nil
}

var artistOpenGraphQuery = cascadia.MustCompile(`html > head > meta[property="og:image"]`)

// GetArtistImageURL looks the artist up via the API, then scrapes the
// og:image meta tag from the artist page. It returns an empty string when
// the page carries no image.
func (l *LastFm) GetArtistImageURL(ctx context.Context, name string) (string, error) {
	info, err := l.GetArtistInfo(ctx, name)
	if err != nil {
		return "", fmt.Errorf("get artist image url: %w", err)
	}
	if info.URL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return "", fmt.Errorf("get artist image url: new request: %w", err)
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("get artist image url: get artist page: %w", err)
	}
	defer resp.Body.Close()

	node, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("get artist image url: parse html: %w", err)
	}

	n := cascadia.Query(node, artistOpenGraphQuery)
	if n == nil {
		return "", nil
	}
	for _, attr := range n.Attr {
		if attr.Key == "content" {
			return attr.Val, nil
		}
	}
	return "", nil
}

func request[T any](l *LastFm, ctx context.Context, method, responseKey string, params url.Values) (T, error) {
	var obj T
	query := make(url.Values, len(params)+3)
	query.Set("method", method)
	query.Set("api_key", l.apiKey)
	query.Set("format", "json")
	for k, v := range params {
		query[k] = v
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", l.BaseURL, query.Encode()), nil)
	if err != nil {
		return obj, fmt.Errorf("last.fm new request: %w", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", harmonia.ServerName, harmonia.Version))
	res, err := l.http.Do(req)
	if err != nil {
		return obj, fmt.Errorf("last.fm do request: %w", err)
	}
	if res.StatusCode == http.StatusTooManyRequests {
		res.Body.Close()
		seconds, err := strconv.Atoi(res.Header.Get("Retry-After"))
		if err != nil || seconds < 1 {
			seconds = 1
		}
		select {
		case <-ctx.Done():
			return obj, ctx.Err()
		case <-time.After(time.Duration(seconds) * time.Second):
		}
		return request[T](l, ctx, method, responseKey, params)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusUnauthorized {
		return obj, fmt.Errorf("last.fm request: %w", ErrUnauthenticated)
	}
	if res.StatusCode == http.StatusNotFound {
		return obj, fmt.Errorf("last.fm request: %w", ErrNotFound)
	}
	if res.StatusCode != http.StatusOK {
		return obj, fmt.Errorf("last.fm request: %w: %d", ErrUnexpectedResponseCode, res.StatusCode)
	}

	var body map[string]json.RawMessage
	err = json.NewDecoder(res.Body).Decode(&body)
	if err != nil {
		return obj, fmt.Errorf("last.fm request: decode: %w: %w", ErrUnexpectedResponseBody, err)
	}
	if e, ok := body["error"]; ok {
		var code int
		err = json.Unmarshal(e, &code)
		if err != nil {
			return obj, fmt.Errorf("last.fm request: decode error code: %w: %w", ErrUnexpectedResponseBody, err)
		}
		// code 6 means the artist does not exist
		if code == 6 {
			return obj, fmt.Errorf("last.fm request: %w", ErrNotFound)
		}
		return obj, fmt.Errorf("last.fm request: error code %d: %w", code, ErrUnexpectedResponseCode)
	}
	data, ok := body[responseKey]
	if !ok {
		return obj, fmt.Errorf("last.fm request: response key %s does not exist in response: %w", responseKey, ErrUnexpectedResponseBody)
	}
	err = json.Unmarshal(data, &obj)
	if err != nil {
		return obj, fmt.Errorf("last.fm request: decode response: %w: %w", ErrUnexpectedResponseBody, err)
	}
	return obj, nil
}
