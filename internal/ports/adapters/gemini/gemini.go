// Package gemini adapts the Google Gemini generateContent API to the
// ContentAnalyzer port. Responses are advisory: callers validate every
// suggested window before use, and metadata helpers degrade to empty output
// rather than failing the batch.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clipsmith/shortclips/internal/types"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	requestTimeout = 90 * time.Second
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "gemini-1.5-pro"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// KeyMoments asks for up to n engagement windows as strict JSON. The windows
// come back unvalidated; the scheduler owns clamping and filtering.
func (a *Adapter) KeyMoments(ctx context.Context, tr types.Transcript, videoTitle string, n int, minClip, maxClip time.Duration) ([]types.KeyMoment, error) {
	if n <= 0 || len(tr.Segments) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(
		"Identify the %d most engaging moments in this video transcript for short vertical clips. "+
			"Each moment must last between %.0f and %.0f seconds. "+
			"Return strictly valid JSON (no markdown, no code fences): "+
			`{"moments":[{"start_sec":number,"end_sec":number,"score":number,"rationale":string}]}. `+
			"Score is engagement 0-10.\n\nVideo title: %s\n\nTranscript with timestamps:\n%s",
		n, minClip.Seconds(), maxClip.Seconds(), videoTitle, formatSegments(tr.Segments),
	)

	content, err := a.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	clean, err := extractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("gemini returned no parseable JSON: %w", err)
	}
	var out struct {
		Moments []types.KeyMoment `json:"moments"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("decode moments: %w", err)
	}
	return out.Moments, nil
}

// Analyze returns free-form analysis text used for reporting only.
func (a *Adapter) Analyze(ctx context.Context, tr types.Transcript, videoTitle string) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze this video transcript and summarize the most engaging moments for short-form clips, "+
			"why each works (hook, emotion, educational value), and suggested angles.\n\n"+
			"Video title: %s\n\nTranscript:\n%s",
		videoTitle, tr.Text,
	)
	return a.generate(ctx, prompt, false)
}

func (a *Adapter) ViralTitle(ctx context.Context, clipText string) (string, error) {
	prompt := "Generate one viral, attention-grabbing title for this video clip content. " +
		"Curiosity-inducing, under 60 characters, suitable for vertical short-form platforms. " +
		"Reply with the title only.\n\n" + clipText
	t, err := a.generate(ctx, prompt, false)
	return firstLine(t), err
}

func (a *Adapter) TextHook(ctx context.Context, clipText string) (string, error) {
	prompt := "Generate a short, punchy text hook (3-7 words) for the first 3 seconds of this clip. " +
		"It must create curiosity. Reply with the hook text only.\n\n" + clipText
	h, err := a.generate(ctx, prompt, false)
	return firstLine(h), err
}

func (a *Adapter) generate(ctx context.Context, prompt string, jsonOut bool) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}
	if jsonOut {
		payload["generationConfig"] = map[string]any{"responseMimeType": "application/json"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", a.baseURL, a.model, a.key)

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("gemini timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(rb), 400))
	}

	var raw struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Candidates) == 0 || len(raw.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return strings.TrimSpace(raw.Candidates[0].Content.Parts[0].Text), nil
}

func formatSegments(segs []types.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		fmt.Fprintf(&b, "[%.1fs - %.1fs] %s\n", seg.Start, seg.End, seg.Text)
	}
	return b.String()
}

// extractJSONObject tolerates models that wrap JSON in prose or code fences
// by slicing out the outermost braces.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object found")
	}
	return s[start : end+1], nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `"`)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
