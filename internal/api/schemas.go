package api

import (
	"encoding/json"
	"net/http"

	"github.com/clipsmith/shortclips/internal/types"
)

// ProcessRequest asks for clips from a network video.
type ProcessRequest struct {
	VideoURL string `json:"video_url"`
	NumClips int    `json:"num_clips"`
	AddMusic *bool  `json:"add_music"`
	AddZoom  *bool  `json:"add_zoom"`
}

// ProcessLocalRequest asks for clips from a video already on disk.
type ProcessLocalRequest struct {
	VideoPath string `json:"video_path"`
	NumClips  int    `json:"num_clips"`
	AddMusic  *bool  `json:"add_music"`
	AddZoom   *bool  `json:"add_zoom"`
}

// ProcessResponse is the batch contract shared with the CLI front end.
type ProcessResponse = types.BatchResult

type HealthResponse struct {
	Status              string `json:"status"`
	GeminiConfigured    bool   `json:"gemini_api_configured"`
	FreesoundConfigured bool   `json:"freesound_api_configured"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
}
