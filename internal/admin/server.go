// Status HTTP server for watch mode
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sort"
	"time"

	"aoewatch/internal/watch"
)

// Server exposes the watcher state over HTTP: an HTML status page plus
// JSON endpoints for the snapshot and the last run report.
type Server struct {
	W   *watch.Watcher
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server around a watcher.
func NewServer(w *watch.Watcher) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{W: w, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/check-now", s.handleCheckNow)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

type indexRow struct {
	Player   string
	Status   string
	MatchID  string
	Observed string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	report := s.W.LastReport()
	data := struct {
		Rows    []indexRow
		LastRun string
		Changes int
		Errors  int
	}{}
	if report != nil {
		data.LastRun = report.Started.Format(time.RFC3339)
		data.Changes = len(report.Changes)
		data.Errors = len(report.FetchErrors)
	}
	snap := s.W.Snapshot()
	players := make([]string, 0, len(snap))
	for player := range snap {
		players = append(players, player)
	}
	sort.Strings(players)
	for _, player := range players {
		rec := snap[player]
		row := indexRow{
			Player:   player,
			Status:   rec.Status,
			Observed: rec.ObservedAt.Format(time.RFC3339),
		}
		if rec.MatchID != nil {
			row.MatchID = *rec.MatchID
		}
		data.Rows = append(data.Rows, row)
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.W.Snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.W.LastReport()
	if report == nil {
		http.Error(w, "no completed run yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"run_id":       report.RunID,
		"started":      report.Started,
		"fetched":      len(report.Fetched),
		"fetch_errors": len(report.FetchErrors),
		"changes":      len(report.Changes),
		"notified":     report.Notified,
	})
}

func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	report, err := s.W.CheckNow(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"run_id": report.RunID, "changes": len(report.Changes)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
