package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipsmith/shortclips/internal/orchestrator"
	"github.com/clipsmith/shortclips/internal/pipeline"
	"github.com/clipsmith/shortclips/internal/ports/adapters/ytdlp"
	"github.com/clipsmith/shortclips/internal/types"
)

// Runner executes one batch; it is pipeline.Run behind an indirection the
// handler tests can substitute.
type Runner func(ctx context.Context, cfg pipeline.Config) (types.BatchResult, error)

// InfoFetcher resolves video metadata without downloading.
type InfoFetcher func(ctx context.Context, url string) (types.VideoInfo, error)

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.Run == nil {
		cfg.Run = pipeline.Run
	}
	if cfg.Info == nil {
		cfg.Info = ytdlp.New(cfg.App.YtDlpPath).Info
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Post("/process", processHandler(cfg))
	r.Post("/process-local", processLocalHandler(cfg))
	r.Get("/video-info", videoInfoHandler(cfg))

	// Rendered artifacts are served straight from the outputs directory.
	fileServer := http.StripPrefix("/clips/", http.FileServer(http.Dir(cfg.App.OutputsDir)))
	r.Get("/clips/*", fileServer.ServeHTTP)

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:              "healthy",
			GeminiConfigured:    cfg.App.GeminiAPIKey != "",
			FreesoundConfigured: cfg.App.FreesoundAPIKey != "",
		})
	}
}

func processHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.VideoURL == "" {
			WriteError(w, http.StatusBadRequest, "video_url is required", "BAD_REQUEST")
			return
		}
		runBatch(w, r, cfg, req.VideoURL, req.NumClips, req.AddMusic, req.AddZoom)
	}
}

func processLocalHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcessLocalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.VideoPath == "" {
			WriteError(w, http.StatusBadRequest, "video_path is required", "BAD_REQUEST")
			return
		}
		runBatch(w, r, cfg, req.VideoPath, req.NumClips, req.AddMusic, req.AddZoom)
	}
}

func runBatch(w http.ResponseWriter, r *http.Request, cfg ServerConfig, input string, numClips int, addMusic, addZoom *bool) {
	if numClips <= 0 {
		numClips = 3
	}

	pc := pipeline.Config{
		Input:    input,
		NumClips: numClips,
		AddMusic: boolOr(addMusic, true),
		AddZoom:  boolOr(addZoom, true),
		App:      cfg.App,
		Logger:   cfg.Logger,
	}
	if err := pc.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	res, err := cfg.Run(r.Context(), pc)
	if err != nil {
		if errors.Is(err, orchestrator.ErrEngineUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, err.Error(), "ENGINE_UNAVAILABLE")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func videoInfoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			WriteError(w, http.StatusBadRequest, "url query parameter is required", "BAD_REQUEST")
			return
		}
		info, err := cfg.Info(r.Context(), url)
		if err != nil {
			WriteError(w, http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, info)
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
