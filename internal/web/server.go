package web

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/glftpd/glspy/internal/errors"
	"github.com/glftpd/glspy/internal/kick"
	"github.com/glftpd/glspy/internal/logger"
	"github.com/glftpd/glspy/internal/lookup"
	"github.com/glftpd/glspy/internal/session"
	"github.com/glftpd/glspy/internal/snapshot"
)

// Collector produces one snapshot per request.
type Collector interface {
	Collect(ctx context.Context) *snapshot.Snapshot
}

// Killer terminates a user's session by name.
type Killer interface {
	Kick(username string, sessions []*session.Session) kick.Result
}

// Options configures a Server.
type Options struct {
	Threshold float64
	// UsersDir is the userfile directory; "" answers /user with 500.
	UsersDir      string
	GlftpdVersion string
	Version       string
	Log           logger.Logger
}

// Server answers the web routes.
type Server struct {
	collector Collector
	killer    Killer
	opts      Options
	mux       *http.ServeMux
}

// NewServer creates a server. killer may be nil, which disables /kick.
func NewServer(collector Collector, killer Killer, opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = session.DefaultThreshold
	}
	s := &Server{
		collector: collector,
		killer:    killer,
		opts:      opts,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/spy", http.StatusFound)
	})
	s.mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	for _, route := range []string{"spy", "users", "totals"} {
		s.mux.HandleFunc("/"+route, s.pageHandler(route))
	}
	s.mux.HandleFunc("GET /html", s.htmlHandler)
	s.mux.HandleFunc("GET /users.json", s.usersJSONHandler)
	s.mux.HandleFunc("GET /user/{name}", s.userHandler)
	s.mux.HandleFunc("GET /kick/{name}", s.kickHandler)
	return s
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't listen on %s", addr),
			"Pick another web.port or stop whatever is using it")
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Log.Info("listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Page is the data handed to the page templates.
type Page struct {
	Title         string
	Report        *Report
	Sort          string
	Rev           bool
	GlftpdVersion string
	Version       string
}

// SortHead is the data of one sortable column heading.
type SortHead struct {
	Key   string
	Label string
	Sort  string
	Rev   bool
}

// Head returns the heading of the column sorted by key.
func (p *Page) Head(key, label string) SortHead {
	return SortHead{Key: key, Label: label, Sort: p.Sort, Rev: p.Rev}
}

func (s *Server) pageHandler(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.collector.Collect(r.Context())
		key, rev := sortParams(r)

		sessions := snap.Listed()
		snapshot.Sort(sessions, key, rev)

		page := &Page{
			Title:         route,
			Report:        NewReport(snap, sessions, s.opts.Threshold),
			Sort:          key,
			Rev:           rev,
			GlftpdVersion: s.opts.GlftpdVersion,
			Version:       s.opts.Version,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.ExecuteTemplate(w, route+".html", page); err != nil {
			s.opts.Log.Error("render %s: %v", route, err)
		}
	}
}

// sortParams reads 'sort' and 'rev', also accepting 'sort_attr' and
// 'sort_rev'. Unknown keys fall back to username.
func sortParams(r *http.Request) (string, bool) {
	q := r.URL.Query()
	key := q.Get("sort")
	if key == "" {
		key = q.Get("sort_attr")
	}
	valid := false
	for _, k := range snapshot.SortKeys {
		if k == key {
			valid = true
			break
		}
	}
	if !valid {
		key = "username"
	}

	revParam := q.Get("rev")
	if revParam == "" {
		revParam = q.Get("sort_rev")
	}
	rev, _ := strconv.ParseBool(revParam)
	return key, rev
}

func (s *Server) htmlHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.collector.Collect(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := WriteHTML(w, NewReport(snap, nil, s.opts.Threshold)); err != nil {
		s.opts.Log.Error("render html: %v", err)
	}
}

func (s *Server) usersJSONHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.collector.Collect(r.Context())
	key, rev := sortParams(r)
	sessions := snap.Listed()
	snapshot.Sort(sessions, key, rev)
	s.writeJSON(w, http.StatusOK, NewReport(snap, sessions, s.opts.Threshold))
}

func (s *Server) userHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	u, err := lookup.ReadUserfile(s.opts.UsersDir, name)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, u)
	case !lookup.ValidUsername(name) || stderrors.Is(err, fs.ErrNotExist):
		s.writeError(w, http.StatusNotFound, CodeUserNotFound, fmt.Sprintf("User %s not found", name), "")
	default:
		s.opts.Log.Warn("userfile of %s: %v", name, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = WriteJSONFromError(w, err)
	}
}

func (s *Server) kickHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.killer == nil {
		s.writeError(w, http.StatusInternalServerError, CodePermissionDenied, "Kicking is disabled", "")
		return
	}

	snap := s.collector.Collect(r.Context())
	res := s.killer.Kick(name, snap.Listed())
	switch res.Outcome {
	case kick.Success:
		s.opts.Log.Info("kick %s: %s", name, res.Message())
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"username": res.Username,
			"pid":      res.PID,
			"message":  res.Message(),
		})
	case kick.NotFound:
		s.writeError(w, http.StatusNotFound, CodeSessionNotFound, res.Message(), "")
	default:
		s.opts.Log.Warn("kick %s: %v", name, res.Err)
		s.writeError(w, http.StatusInternalServerError, CodePermissionDenied, res.Message(),
			"Run glspy as root or as the user glftpd runs as")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := WriteJSONSuccess(w, data); err != nil {
		s.opts.Log.Debug("write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, suggestion string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := WriteJSONError(w, code, message, suggestion); err != nil {
		s.opts.Log.Debug("write response: %v", err)
	}
}
