// Package freesound adapts the Freesound API to the MusicSource port. Tracks
// are copyright-free previews; absence of music is always non-fatal for the
// batch.
package freesound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "https://freesound.org/apiv2"

type Adapter struct {
	key     string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string) *Adapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		key:     apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type track struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Previews struct {
		HQMP3 string `json:"preview-hq-mp3"`
	} `json:"previews"`
}

// DefaultTrack searches for an upbeat instrumental background track and
// downloads the first preview that works into destDir.
func (a *Adapter) DefaultTrack(ctx context.Context, destDir string) (string, error) {
	if a.key == "" {
		return "", errors.New("freesound api key not configured")
	}

	tracks, err := a.search(ctx, "upbeat instrumental", 30, 180, 5)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", errors.New("no matching tracks")
	}

	var lastErr error
	for _, t := range tracks {
		if t.Previews.HQMP3 == "" {
			continue
		}
		out := filepath.Join(destDir, fmt.Sprintf("music_%d.mp3", t.ID))
		if err := a.download(ctx, t.Previews.HQMP3, out); err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no downloadable previews")
	}
	return "", lastErr
}

func (a *Adapter) search(ctx context.Context, query string, minDur, maxDur, limit int) ([]track, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("token", a.key)
	q.Set("filter", fmt.Sprintf("duration:[%d TO %d]", minDur, maxDur))
	q.Set("fields", "id,name,duration,previews")
	q.Set("page_size", fmt.Sprint(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search/text/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freesound search status %d", resp.StatusCode)
	}

	var out struct {
		Results []track `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (a *Adapter) download(ctx context.Context, previewURL, out string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("freesound download status %d", resp.StatusCode)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(out)
		return err
	}
	return nil
}
