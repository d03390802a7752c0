// Package web serves the projection page and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"DrawSentinel/internal/draw"
	"DrawSentinel/internal/format"
	"DrawSentinel/internal/metrics"
	"DrawSentinel/internal/model"
	"DrawSentinel/internal/tracker"
	"DrawSentinel/internal/version"

	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Server exposes a Tracker over HTTP.
type Server struct {
	Tracker *tracker.Tracker
	router  *mux.Router
}

// NewServer wires the routes.
func NewServer(tr *tracker.Tracker) *Server {
	s := &Server{Tracker: tr, router: mux.NewRouter()}

	s.router.Use(tagRoute)
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/rows", s.handleSubmitForm).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rows", s.handleListRows).Methods(http.MethodGet)
	api.HandleFunc("/rows", s.handleCreateRow).Methods(http.MethodPost)
	api.HandleFunc("/price", s.handleGetPrice).Methods(http.MethodGet)
	api.HandleFunc("/next-draw", s.handleNextDraw).Methods(http.MethodGet)

	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.String(),
			"source":  s.Tracker.FetcherName(),
		})
	}).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	instrument(s.router).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type pageRow struct {
	Draw  string
	Value string
}

type pageData struct {
	Schedule       string
	Stake          string
	DefaultDate    string
	CurrentPrice   string
	Rows           []pageRow
	Empty          bool
	Busy           bool
	ReenableMillis int64 // delay before a busy page unlocks its controls
	Error          string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, popFlash(w, r))
}

// handleSubmitForm always redirects to the page, carrying a failure as a flash message.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "could not read the form")
	} else if _, err := s.submit(r.Context(), r.PostFormValue("date")); err != nil {
		_, msg := describeError(err)
		setFlash(w, msg)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, errMsg string) {
	rows := s.Tracker.Rows()
	data := pageData{
		Schedule:    s.Tracker.Schedule().String(),
		Stake:       format.Currency(s.Tracker.Stake()),
		DefaultDate: format.DatetimeLocal(s.Tracker.Now()),
		Rows:        make([]pageRow, len(rows)),
		Empty:       len(rows) == 0,
		Busy:        s.Tracker.Busy(),
		Error:       errMsg,
	}
	if data.Busy {
		data.ReenableMillis = max(s.Tracker.Cooldown(), minReenable).Milliseconds()
	}
	if p := s.Tracker.CurrentPrice(); p != nil {
		data.CurrentPrice = format.Currency(p.Amount)
	}
	for i, row := range rows {
		data.Rows[i] = pageRow{Draw: format.Datetime(row.Draw), Value: format.Currency(row.Projected)}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) submit(ctx context.Context, raw string) (*model.Row, error) {
	input, err := s.Tracker.ParseInput(raw)
	if err != nil {
		return nil, err
	}
	return s.Tracker.Submit(ctx, input)
}

// describeError maps a submit failure to a status code and a message safe to show.
func describeError(err error) (int, string) {
	var invalid *draw.InvalidInputError
	var unavailable *tracker.UnavailablePriceError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, tracker.ErrBusy):
		return http.StatusConflict, err.Error()
	case errors.As(err, &unavailable):
		return http.StatusNotFound, err.Error()
	default:
		log.Printf("[ERROR] submit: %v", err)
		return http.StatusBadGateway, "failed to fetch the bitcoin price, try again later"
	}
}
