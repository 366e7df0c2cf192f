// Copyright © 2018 One Concern

// Package web serves the content of a branch over HTTP, to preview deployed docs.
package web

import (
	"context"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
	gitstatus "github.com/oneconcern/docshelf/pkg/git/status"
)

const indexFile = "index.html"

// TreeReader reads files from a branch
type TreeReader interface {
	RealPath(ctx context.Context, branch, pth string) (string, error)
	FileMode(ctx context.Context, branch, pth string) (uint32, error)
	ReadFile(ctx context.Context, branch, pth string) ([]byte, error)
}

// Server serves files from a branch
type Server struct {
	tree   TreeReader
	branch string
	logger *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// Logger sets the logger of the server
func Logger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer builds a server for a branch
func NewServer(tree TreeReader, branch string, opts ...Option) *Server {
	s := &Server{
		tree:   tree,
		branch: branch,
		logger: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gitstatus.ErrGit) {
		s.logger.Debug("not found", zap.String("path", r.URL.Path), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	s.logger.Error("cannot serve file", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// HandleFile serves a file from the branch.
//
// Directories are redirected to their trailing-slash form, then served with their index.html.
func (s *Server) HandleFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requested := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")

		real, err := s.tree.RealPath(ctx, s.branch, requested)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		mode, err := s.tree.FileMode(ctx, s.branch, real)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if mode == git.ModeDir {
			if requested != "" && !strings.HasSuffix(r.URL.Path, "/") {
				target := r.URL.EscapedPath() + "/"
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}
			if real, err = s.tree.RealPath(ctx, s.branch, path.Join(real, indexFile)); err != nil {
				s.fail(w, r, err)
				return
			}
		}

		data, err := s.tree.ReadFile(ctx, s.branch, real)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		contentType := mime.TypeByExtension(path.Ext(real))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// InitRouter sets up the routes of the preview server
func InitRouter(srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(srv.logger))
	r.Use(middleware.Recoverer)

	r.Get("/*", srv.HandleFile())
	r.Head("/*", srv.HandleFile())

	return r
}
