// Copyright © 2018 One Concern

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/docshelf/pkg/errors"
	"github.com/oneconcern/docshelf/pkg/git"
)

func testBranch(t *testing.T) *git.Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available")
	}

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.name", "Docs Bot"},
		{"config", "user.email", "docs@example.com"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	t.Setenv("GIT_COMMITTER_NAME", "")
	t.Setenv("GIT_COMMITTER_EMAIL", "")

	repo := git.New(git.Dir(dir))
	files := []git.FileInfo{
		git.NewFileInfo("index.html", []byte("<p>root</p>"), git.ModeFile),
		git.NewFileInfo("versions.json", []byte("[]"), git.ModeFile),
		git.NewFileInfo("1.0/index.html", []byte("<p>one</p>"), git.ModeFile),
		git.NewFileInfo("1.0/css/style.css", []byte("body {}"), git.ModeFile),
		git.NewFileInfo("1.0/data.unknownext", []byte("plain text"), git.ModeFile),
		git.NewFileInfo("latest", []byte("1.0"), git.ModeSymlink),
		git.NewFileInfo("empty/readme.txt", []byte("no index"), git.ModeFile),
		git.NewFileInfo("odd dir%/index.html", []byte("<p>odd</p>"), git.ModeFile),
	}
	require.NoError(t, repo.WithCommit(context.Background(), "gh-pages", "site", func(c *git.Commit) error {
		for _, f := range files {
			if err := c.AddFile(f); err != nil {
				return err
			}
		}
		return nil
	}))
	return repo
}

func serve(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHandleFile(t *testing.T) {
	handler := InitRouter(NewServer(testBranch(t), "gh-pages"))

	tests := []struct {
		name        string
		method      string
		target      string
		status      int
		body        string
		contentType string
		location    string
	}{
		{name: "root", target: "/", status: http.StatusOK, body: "<p>root</p>", contentType: "text/html"},
		{name: "file", target: "/1.0/css/style.css", status: http.StatusOK, body: "body {}", contentType: "text/css"},
		{name: "json", target: "/versions.json", status: http.StatusOK, body: "[]", contentType: "application/json"},
		{name: "sniffed", target: "/1.0/data.unknownext", status: http.StatusOK, body: "plain text", contentType: "text/plain; charset=utf-8"},
		{name: "directory", target: "/1.0/", status: http.StatusOK, body: "<p>one</p>"},
		{name: "directory redirect", target: "/1.0", status: http.StatusMovedPermanently, location: "/1.0/"},
		{name: "redirect keeps query", target: "/1.0?q=x", status: http.StatusMovedPermanently, location: "/1.0/?q=x"},
		{name: "redirect keeps escapes", target: "/odd%20dir%25", status: http.StatusMovedPermanently, location: "/odd%20dir%25/"},
		{name: "escaped directory", target: "/odd%20dir%25/", status: http.StatusOK, body: "<p>odd</p>"},
		{name: "symlink directory", target: "/latest/", status: http.StatusOK, body: "<p>one</p>"},
		{name: "symlink redirect", target: "/latest", status: http.StatusMovedPermanently, location: "/latest/"},
		{name: "through symlink", target: "/latest/css/style.css", status: http.StatusOK, body: "body {}"},
		{name: "missing", target: "/2.0/index.html", status: http.StatusNotFound},
		{name: "missing index", target: "/empty/", status: http.StatusNotFound},
		{name: "escape", target: "/../../etc/passwd", status: http.StatusNotFound},
		{name: "head", method: http.MethodHead, target: "/1.0/", status: http.StatusOK},
		{name: "post", method: http.MethodPost, target: "/1.0/", status: http.StatusMethodNotAllowed},
	}

	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			w := serve(handler, method, tt.target)
			require.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

type brokenTree struct{}

func (brokenTree) RealPath(_ context.Context, _, pth string) (string, error) {
	return pth, nil
}

func (brokenTree) FileMode(context.Context, string, string) (uint32, error) {
	return git.ModeFile, nil
}

func (brokenTree) ReadFile(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestHandleFileUnexpectedError(t *testing.T) {
	w := serve(InitRouter(NewServer(brokenTree{}, "gh-pages")), http.MethodGet, "/index.html")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
