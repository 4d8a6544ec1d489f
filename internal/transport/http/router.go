package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
)

type RouterConfig struct {
	WS             *WSHandler
	Scores         app.ScoreStore
	TopN           int
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter mounts the websocket endpoint, the read-only catalog, the leaderboard API
// and (optionally) /metrics behind CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 3
	}
	api := &scoresAPI{scores: cfg.Scores, topN: cfg.TopN, log: cfg.Logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if cfg.WS != nil {
		r.HandleFunc("/ws", cfg.WS.ServeWS)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/categories", listCategories).Methods(http.MethodGet)
	v1.HandleFunc("/scores", api.list).Methods(http.MethodGet)
	v1.HandleFunc("/scores", api.clear).Methods(http.MethodDelete)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

type catalogResponse struct {
	Categories   []domain.CategoryInfo `json:"categories"`
	Difficulties []difficultyInfo      `json:"difficulties"`
}

type difficultyInfo struct {
	ID   domain.Difficulty `json:"id"`
	Name string            `json:"name"`
}

func listCategories(w http.ResponseWriter, _ *http.Request) {
	resp := catalogResponse{Categories: domain.Categories()}
	for _, d := range domain.Difficulties() {
		resp.Difficulties = append(resp.Difficulties, difficultyInfo{ID: d, Name: d.Name()})
	}
	writeJSON(w, http.StatusOK, resp)
}

type scoresAPI struct {
	scores app.ScoreStore
	topN   int
	log    *slog.Logger
}

// list serves GET /api/v1/scores?limit=N. Without limit the podium (top N) is returned;
// limit=0 returns every entry.
func (a *scoresAPI) list(w http.ResponseWriter, r *http.Request) {
	limit := a.topN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "bad_request", Message: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	var (
		entries []domain.ScoreEntry
		err     error
	)
	if limit == 0 {
		entries, err = a.scores.ListAll(r.Context())
	} else {
		entries, err = a.scores.TopN(r.Context(), limit)
	}
	if err != nil {
		a.log.Error("list scores", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Code: "internal", Message: "could not load scores"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": entries})
}

func (a *scoresAPI) clear(w http.ResponseWriter, r *http.Request) {
	if err := a.scores.Clear(r.Context()); err != nil {
		a.log.Error("clear scores", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Code: "internal", Message: "could not clear scores"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
