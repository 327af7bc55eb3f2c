package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backbeat/internal/config"
	"backbeat/internal/sim"
	"backbeat/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Server struct {
	cfg    config.APIConfig
	log    *slog.Logger
	engine *sim.Engine
	store  *store.Store
	mux    *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, engine *sim.Engine, st *store.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		engine: engine,
		store:  st,
		mux:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreateGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", s.handleGameState)
			r.Post("/advance", s.handleAdvance)
			r.Post("/preview", s.handlePreview)
			r.Get("/chart", s.handleChart)
			r.Get("/summaries", s.handleSummaries)
			r.Get("/summaries/{week}", s.handleSummary)
		})
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Seed uint64 `json:"seed"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Seed == 0 {
		in.Seed = uint64(time.Now().UnixNano())
	}

	st := sim.NewGame(uuid.NewString(), s.engine.Balance(), in.Seed)
	if err := s.store.CreateGame(r.Context(), st); err != nil {
		writeDomainError(w, err)
		return
	}
	s.log.Info("game created", "game", st.ID, "seed", in.Seed)
	writeJSON(w, http.StatusCreated, map[string]any{"id": st.ID, "state": st})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Actions []sim.Action `json:"actions"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.engine.ValidateActions(st, in.Actions); err != nil {
		writeDomainError(w, err)
		return
	}

	next, sum, err := s.engine.AdvanceWeek(st, in.Actions)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.SaveTurn(r.Context(), next, sum, idempotencyKey(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": next, "summary": sum})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ArtistID string          `json:"artist_id"`
		Project  sim.ProjectPlan `json:"project"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	pv, err := s.engine.PreviewProject(st, in.ArtistID, in.Project)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pv)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.LoadGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": st.Week - 1, "entries": st.Chart})
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	out, err := s.store.Summaries(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": out})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week")
		return
	}
	out, err := s.store.Summary(r.Context(), chi.URLParam(r, "id"), week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sim.ErrGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sim.ErrSongReserved), errors.Is(err, store.ErrDuplicateTurn):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, sim.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
