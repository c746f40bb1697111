// Package youtube fetches video captions from YouTube's timedtext endpoint.
package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://www.youtube.com"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the caption client.
type Config struct {
	// BaseURL is the YouTube base URL. Overridable in tests.
	BaseURL string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Client fetches caption tracks over the timedtext API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a new caption client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// transcript is the timedtext caption document.
type transcript struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// trackList is the timedtext track listing for a video.
type trackList struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
	} `xml:"track"`
}

// Fetch returns the joined caption text for the video. With an empty lang,
// the track list is consulted and the first available track is used,
// whatever its language.
func (c *Client) Fetch(ctx context.Context, videoURL, lang string) (string, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return "", err
	}

	if lang == "" {
		lang, err = c.firstTrackLang(ctx, id)
		if err != nil {
			return "", err
		}
	}

	body, err := c.get(ctx, fmt.Sprintf("/api/timedtext?v=%s&lang=%s", url.QueryEscape(id), url.QueryEscape(lang)))
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("youtube: no %q captions for video %s", lang, id)
	}

	var doc transcript
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("youtube: parse captions: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// firstTrackLang lists the video's caption tracks and returns the language
// code of the first one.
func (c *Client) firstTrackLang(ctx context.Context, id string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/timedtext?type=list&v=%s", url.QueryEscape(id)))
	if err != nil {
		return "", err
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("youtube: parse track list: %w", err)
	}
	if len(list.Tracks) == 0 {
		return "", fmt.Errorf("youtube: no caption tracks for video %s", id)
	}
	return list.Tracks[0].LangCode, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// VideoID extracts the video id from the common YouTube URL shapes:
// watch?v=, youtu.be/, /embed/ and /shorts/.
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", fmt.Errorf("youtube: invalid URL %q: %w", videoURL, err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("youtube: could not find a video id in %q", videoURL)
}
