package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"hotelgram/bot"
	"hotelgram/logging"
	"hotelgram/models"
	"hotelgram/scheduler"
)

// Pipeline is the manual-trigger surface of the orchestrator. Manual triggers
// run the exact same stage logic as scheduled cycles.
type Pipeline interface {
	ManualScrape(ctx context.Context, location string) (*bot.ScrapeResult, error)
	GenerateContent(ctx context.Context, limit int) int
	PublishPost(ctx context.Context, id uuid.UUID) error
}

// Schedule manages the recurring cycle job.
type Schedule interface {
	Start(minutes int) error
	Stop() error
	IsRunning() bool
}

// Reader serves the read-only views.
type Reader interface {
	ListPosts(ctx context.Context) ([]models.PostView, error)
	ListHotels(ctx context.Context) ([]models.Hotel, error)
}

// RunLister serves operational cycle-run history.
type RunLister interface {
	ListRuns(limit int) ([]models.CycleRun, error)
}

// Triggerable allows background workers to be kicked manually.
type Triggerable interface {
	Trigger()
}

type Server struct {
	pipeline Pipeline
	schedule Schedule
	reader   Reader
	runs     RunLister
	media    Triggerable
	logs     *logging.Buffer
	router   *mux.Router
}

func New(pipeline Pipeline, schedule Schedule, reader Reader, logs *logging.Buffer) *Server {
	s := &Server{
		pipeline: pipeline,
		schedule: schedule,
		reader:   reader,
		logs:     logs,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

// SetRunLister enables the run-history endpoint.
func (s *Server) SetRunLister(runs RunLister) {
	s.runs = runs
}

// SetMediaWorker enables the manual media-sync endpoint.
func (s *Server) SetMediaWorker(media Triggerable) {
	s.media = media
}

func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.router)
}

func (s *Server) routes() {
	s.router.HandleFunc("/logs", s.handleLogs).Methods("GET")
	s.router.HandleFunc("/bot/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/bot/start", s.handleStart).Methods("POST")
	s.router.HandleFunc("/bot/stop", s.handleStop).Methods("POST")
	s.router.HandleFunc("/bot/runs", s.handleRuns).Methods("GET")
	s.router.HandleFunc("/scrape", s.handleScrape).Methods("POST")
	s.router.HandleFunc("/generate-content", s.handleGenerate).Methods("POST")
	s.router.HandleFunc("/posts", s.handlePosts).Methods("GET")
	s.router.HandleFunc("/hotels/raw", s.handleRawHotels).Methods("GET")
	s.router.HandleFunc("/posts/{id}/publish", s.handlePublish).Methods("POST")
	s.router.HandleFunc("/media/sync", s.handleMediaSync).Methods("POST")
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.logs.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"is_running": s.schedule.IsRunning()})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	minutes := queryInt(r, "minutes", 60)

	if err := s.schedule.Start(minutes); err != nil {
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			writeJSON(w, http.StatusOK, statusMessage("already_running", err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, statusMessage("error", err.Error()))
		return
	}

	s.logs.Add("Bot START (interval: %d menit).", minutes)
	writeJSON(w, http.StatusOK, statusMessage("success", "Bot aktif tiap "+strconv.Itoa(minutes)+" menit"))
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.schedule.Stop(); err != nil {
		writeJSON(w, http.StatusOK, statusMessage("error", err.Error()))
		return
	}

	s.logs.Add("Bot STOP oleh user.")
	writeJSON(w, http.StatusOK, statusMessage("success", "Bot berhasil dimatikan"))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusOK, []models.CycleRun{})
		return
	}

	runs, err := s.runs.ListRuns(queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []models.CycleRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Location == "" {
		writeJSON(w, http.StatusBadRequest, statusMessage("error", "location wajib diisi"))
		return
	}

	s.logs.Add("[MANUAL] Scraping %s...", req.Location)

	result, err := s.pipeline.ManualScrape(r.Context(), req.Location)
	if err != nil {
		s.logs.Add("[MANUAL] Scraper gagal: %v", err)
		writeJSON(w, http.StatusOK, statusMessage("failed", "Scraper gagal mendapatkan data hotel."))
		return
	}

	s.logs.Add("[MANUAL] %d hotel baru tersimpan.", result.Saved)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"new_hotels_saved": result.Saved,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 1)

	s.logs.Add("[MANUAL] Generate content...")
	count := s.pipeline.GenerateContent(r.Context(), limit)
	s.logs.Add("[MANUAL] %d konten selesai.", count)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"generated_count": count,
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.reader.ListPosts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []models.PostView{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleRawHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := s.reader.ListHotels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Konten tidak ditemukan"})
		return
	}

	err = s.pipeline.PublishPost(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, statusMessage("success", "Berhasil dikirim ke Instagram"))
	case errors.Is(err, bot.ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Konten tidak ditemukan"})
	default:
		writeJSON(w, http.StatusOK, statusMessage("failed", err.Error()))
	}
}

func (s *Server) handleMediaSync(w http.ResponseWriter, r *http.Request) {
	if s.media == nil {
		writeJSON(w, http.StatusOK, statusMessage("error", "media worker tidak aktif"))
		return
	}
	s.media.Trigger()
	writeJSON(w, http.StatusOK, statusMessage("success", "Media sync dijalankan"))
}

func statusMessage(status, message string) map[string]string {
	return map[string]string{"status": status, "message": message}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, statusMessage("error", err.Error()))
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
