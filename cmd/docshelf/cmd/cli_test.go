// Copyright © 2018 One Concern

package cmd

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconcern/docshelf/pkg/git"
)

const testBuilderConfig = `builder:
  - sh
  - -c
  - mkdir -p site && printf '<p>%s</p>' "$DOCSHELF_DOCS_VERSION" > site/index.html
loglevel: none
`

type exitCode int

type result struct {
	stdout string
	stderr string
	code   int
}

func resetFlags() {
	docshelfFlags.props.edits = nil
	reset := func(f *pflag.Flag) {
		if _, ok := f.Value.(*propFlag); !ok {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	for _, c := range append(rootCmd.Commands(), rootCmd) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

// runCmd executes the CLI, capturing its output and exit code
func runCmd(t *testing.T, args ...string) (res result) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	outWriter, errWriter = &stdout, &stderr
	osExit = func(code int) { panic(exitCode(code)) }
	resetFlags()
	viper.Reset()

	defer func() {
		outWriter, errWriter, osExit = os.Stdout, os.Stderr, os.Exit
		if r := recover(); r != nil {
			code, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			res.code = int(code)
		}
		res.stdout, res.stderr = stdout.String(), stderr.String()
	}()

	rootCmd.SetArgs(args)
	Execute()
	return res
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// setupWorkspace creates a docs project in a git repository and moves into it
func setupWorkspace(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	dir := t.TempDir()
	gitCmd(t, dir, "init", "-q")
	gitCmd(t, dir, "config", "user.name", "Docs Bot")
	gitCmd(t, dir, "config", "user.email", "docs@example.com")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mkdocs.yml"), []byte("site_name: test\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docshelf.yaml"), []byte(testBuilderConfig), 0o600))

	t.Setenv("DOCSHELF_CONFIG", filepath.Join(dir, "docshelf.yaml"))
	for _, env := range []string{"GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	color.NoColor = true
	return dir
}

// addRemote creates a bare repository known as origin
func addRemote(t *testing.T, dir string) string {
	t.Helper()
	remote := filepath.Join(t.TempDir(), "remote.git")
	gitCmd(t, dir, "init", "-q", "--bare", remote)
	gitCmd(t, dir, "remote", "add", "origin", remote)
	return remote
}

func readBranchFile(t *testing.T, dir, branch, name string) string {
	t.Helper()
	ctx := context.Background()
	repo := git.New(git.Dir(dir))
	resolved, err := repo.RealPath(ctx, branch, name)
	require.NoError(t, err)
	data, err := repo.ReadFile(ctx, branch, resolved)
	require.NoError(t, err)
	return string(data)
}

func requireOK(t *testing.T, res result) {
	t.Helper()
	require.Equalf(t, 0, res.code, "unexpected failure: %s", res.stderr)
}

func TestDeployAndList(t *testing.T) {
	dir := setupWorkspace(t)

	requireOK(t, runCmd(t, "deploy", "1.0"))
	requireOK(t, runCmd(t, "deploy", "2.0", "latest", "--title", "Release 2.0"))

	assert.Equal(t, "<p>2.0</p>", readBranchFile(t, dir, "gh-pages", "2.0/index.html"))
	assert.Equal(t, "<p>1.0</p>", readBranchFile(t, dir, "gh-pages", "1.0/index.html"))
	assert.Equal(t, "", readBranchFile(t, dir, "gh-pages", ".nojekyll"))
	assert.Equal(t, "<p>2.0</p>", readBranchFile(t, dir, "gh-pages", "latest/index.html"))

	res := runCmd(t, "list")
	requireOK(t, res)
	assert.Equal(t, "\"Release 2.0\" (2.0) [latest]\n1.0\n", res.stdout)

	res = runCmd(t, "list", "latest")
	requireOK(t, res)
	assert.Equal(t, "\"Release 2.0\" (2.0) [latest]\n", res.stdout)

	res = runCmd(t, "list", "--json", "1.0")
	requireOK(t, res)
	assert.JSONEq(t, `{"version": "1.0", "title": "1.0", "aliases": []}`, res.stdout)

	res = runCmd(t, "list", "-j")
	requireOK(t, res)
	assert.JSONEq(t, `[
		{"version": "2.0", "title": "Release 2.0", "aliases": ["latest"]},
		{"version": "1.0", "title": "1.0", "aliases": []}
	]`, res.stdout)

	res = runCmd(t, "list", "--format", "{{ .Version }}:{{ len .Aliases }}")
	requireOK(t, res)
	assert.Equal(t, "2.0:1\n1.0:0\n", res.stdout)

	res = runCmd(t, "list", "3.0")
	assert.Equal(t, 1, res.code)
	assert.True(t, strings.HasPrefix(res.stderr, "error: "))
}

func TestDeployOptions(t *testing.T) {
	dir := setupWorkspace(t)

	requireOK(t, runCmd(t, "deploy", "1.0", "latest", "--alias-type", "copy", "--deploy-prefix", "docs",
		"--prop-set", "tags=[\"stable\"]", "--prop-set-string", "owner=docs team", "-m", "custom message"))

	assert.Equal(t, "<p>1.0</p>", readBranchFile(t, dir, "gh-pages", "docs/latest/index.html"))
	assert.Equal(t, "custom message", gitCmd(t, dir, "log", "-1", "--format=%s", "gh-pages"))

	res := runCmd(t, "props", "--deploy-prefix", "docs", "latest")
	requireOK(t, res)
	assert.JSONEq(t, `{"tags": ["stable"], "owner": "docs team"}`, res.stdout)

	res = runCmd(t, "deploy", "2.0", "--alias-type", "unknown")
	assert.Equal(t, 1, res.code)

	res = runCmd(t, "deploy", "3.0", "--prop-set", "not json")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid property edit")

	res = runCmd(t, "deploy", "../escape")
	assert.Equal(t, 1, res.code)
}

func TestDeployFailures(t *testing.T) {
	dir := setupWorkspace(t)

	res := runCmd(t, "deploy", "1.0", "--config-file", "missing.yml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "missing.yml")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "docshelf.yaml"), []byte("builder: [\"false\"]\n"), 0o600))
	res = runCmd(t, "deploy", "1.0")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "deploy failed")

	res = runCmd(t, "deploy")
	assert.Equal(t, 1, res.code)
}

func TestRedeployIsEmpty(t *testing.T) {
	dir := setupWorkspace(t)

	requireOK(t, runCmd(t, "deploy", "1.0"))
	tip := gitCmd(t, dir, "rev-parse", "gh-pages")

	requireOK(t, runCmd(t, "deploy", "1.0"))
	assert.Equal(t, tip, gitCmd(t, dir, "rev-parse", "gh-pages"))

	requireOK(t, runCmd(t, "deploy", "1.0", "--allow-empty"))
	assert.NotEqual(t, tip, gitCmd(t, dir, "rev-parse", "gh-pages"))
}

func TestManageVersions(t *testing.T) {
	dir := setupWorkspace(t)

	requireOK(t, runCmd(t, "deploy", "1.0"))
	requireOK(t, runCmd(t, "deploy", "2.0", "latest"))

	requireOK(t, runCmd(t, "alias", "1.0", "stable", "--alias-type", "redirect"))
	assert.Contains(t, readBranchFile(t, dir, "gh-pages", "stable/index.html"), "../1.0/")

	res := runCmd(t, "alias", "1.0", "latest")
	assert.Equal(t, 1, res.code)
	requireOK(t, runCmd(t, "alias", "1.0", "latest", "-u"))

	requireOK(t, runCmd(t, "retitle", "latest", "Old release"))
	requireOK(t, runCmd(t, "set-default", "stable"))
	assert.Contains(t, readBranchFile(t, dir, "gh-pages", "index.html"), "stable/")

	res = runCmd(t, "set-default", "9.9")
	assert.Equal(t, 1, res.code)
	requireOK(t, runCmd(t, "set-default", "9.9", "--allow-undefined"))

	res = runCmd(t, "list")
	requireOK(t, res)
	assert.Equal(t, "2.0\n\"Old release\" (1.0) [latest, stable]\n", res.stdout)

	requireOK(t, runCmd(t, "delete", "2.0"))
	res = runCmd(t, "list")
	requireOK(t, res)
	assert.Equal(t, "\"Old release\" (1.0) [latest, stable]\n", res.stdout)

	res = runCmd(t, "delete")
	assert.Equal(t, 1, res.code)

	requireOK(t, runCmd(t, "delete", "--all"))
	res = runCmd(t, "list")
	requireOK(t, res)
	assert.Empty(t, res.stdout)
}

func TestProps(t *testing.T) {
	setupWorkspace(t)

	requireOK(t, runCmd(t, "deploy", "1.0", "latest"))
	requireOK(t, runCmd(t, "props", "latest", "--set", "a.b=[1, 2]", "--set-string", "c=d", "--delete", "c"))

	res := runCmd(t, "props", "1.0")
	requireOK(t, res)
	assert.JSONEq(t, `{"a": {"b": [1, 2]}}`, res.stdout)

	res = runCmd(t, "props", "1.0", "a.b[-1]")
	requireOK(t, res)
	assert.Equal(t, "2\n", res.stdout)

	res = runCmd(t, "props", "1.0", "a.b", "--set", "x=1")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot get and set")

	res = runCmd(t, "props", "1.0", "missing")
	assert.Equal(t, 1, res.code)

	requireOK(t, runCmd(t, "props", "1.0", "--set-all", `{"x": true}`))
	res = runCmd(t, "props", "1.0")
	requireOK(t, res)
	assert.JSONEq(t, `{"x": true}`, res.stdout)

	requireOK(t, runCmd(t, "props", "1.0", "--delete-all"))
	res = runCmd(t, "props", "1.0")
	requireOK(t, res)
	assert.Equal(t, "null\n", res.stdout)
}

func TestRemoteStatus(t *testing.T) {
	dir := setupWorkspace(t)
	remote := addRemote(t, dir)

	requireOK(t, runCmd(t, "deploy", "1.0", "--push"))
	pushed := gitCmd(t, dir, "rev-parse", "gh-pages")
	assert.Equal(t, pushed, gitCmd(t, remote, "rev-parse", "gh-pages"))

	requireOK(t, runCmd(t, "deploy", "2.0"))

	// someone else pushed on top of 1.0
	tree := gitCmd(t, dir, "rev-parse", pushed+"^{tree}")
	other := gitCmd(t, dir, "commit-tree", "-p", pushed, "-m", "other", tree)
	gitCmd(t, dir, "update-ref", "refs/remotes/origin/gh-pages", other)

	res := runCmd(t, "list")
	requireOK(t, res)
	assert.Equal(t, "2.0\n1.0\n", res.stdout)

	res = runCmd(t, "deploy", "3.0")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--ignore-remote-status")

	requireOK(t, runCmd(t, "deploy", "3.0", "--ignore-remote-status"))

	requireOK(t, runCmd(t, "deploy", "4.0", "--rebase"))
	assert.Equal(t, other, gitCmd(t, dir, "rev-parse", "gh-pages^"))
	res = runCmd(t, "list")
	requireOK(t, res)
	assert.Equal(t, "4.0\n1.0\n", res.stdout)
}

func TestRemoteBehind(t *testing.T) {
	dir := setupWorkspace(t)
	addRemote(t, dir)

	requireOK(t, runCmd(t, "deploy", "1.0", "--push"))
	pushed := gitCmd(t, dir, "rev-parse", "gh-pages")
	requireOK(t, runCmd(t, "deploy", "2.0"))
	ahead := gitCmd(t, dir, "rev-parse", "gh-pages")

	gitCmd(t, dir, "update-ref", "refs/heads/gh-pages", pushed)
	gitCmd(t, dir, "update-ref", "refs/remotes/origin/gh-pages", ahead)

	requireOK(t, runCmd(t, "retitle", "2.0", "Two"))
	assert.Equal(t, ahead, gitCmd(t, dir, "rev-parse", "gh-pages^"))
}

func TestBranchFromDocsConfig(t *testing.T) {
	dir := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mkdocs.yml"), []byte(`site_name: test
remote_branch: pages
docshelf:
  deploy_prefix: en
`), 0o600))

	requireOK(t, runCmd(t, "deploy", "1.0"))
	assert.Equal(t, "<p>1.0</p>", readBranchFile(t, dir, "pages", "en/1.0/index.html"))

	requireOK(t, runCmd(t, "deploy", "1.0", "--branch", "other"))
	assert.Equal(t, "<p>1.0</p>", readBranchFile(t, dir, "other", "en/1.0/index.html"))
}

func TestServe(t *testing.T) {
	setupWorkspace(t)
	serveContext = func() (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx, cancel
	}
	defer func() {
		serveContext = defaultServeContext
	}()

	requireOK(t, runCmd(t, "serve", "-a", "127.0.0.1:0"))

	res := runCmd(t, "serve", "-a", "256.0.0.1:-1")
	assert.Equal(t, 1, res.code)
}

func TestVersion(t *testing.T) {
	res := runCmd(t, "version")
	requireOK(t, res)
	assert.Contains(t, res.stdout, "docshelf dev\n")
	assert.Contains(t, res.stdout, "Go:")

	res = runCmd(t, "version", "--json")
	requireOK(t, res)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Git)

	Version = "1.2.3"
	defer func() { Version = "" }()
	assert.Equal(t, "clean", NewVersionInfo().GitState)
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		name     string
		info     VersionInfo
		expected string
	}{
		{
			name:     "dev",
			info:     VersionInfo{Version: "dev", GoVersion: "go1.21.0"},
			expected: "docshelf dev\nGo: go1.21.0\n",
		},
		{
			name:     "release",
			info:     VersionInfo{Version: "1.2.3", GitCommit: "abc123", GitState: "clean", Git: "2.43.0"},
			expected: "docshelf 1.2.3\nCommit:       abc123\nWorking tree: clean\nGit:          2.43.0\n",
		},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.String())
		})
	}
}

func TestInstallExtras(t *testing.T) {
	dir := setupWorkspace(t)

	res := runCmd(t, "install-extras")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot install extras")

	requireOK(t, runCmd(t, "install-extras", "--theme", "mkdocs"))
	requireOK(t, runCmd(t, "install-extras", "-t", "mkdocs"))

	for _, rel := range []string{"docs/css/version-select.css", "docs/js/version-select.js"} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
		assert.NoErrorf(t, err, "expected %s to be installed", rel)
	}
	data, err := os.ReadFile(filepath.Join(dir, "mkdocs.yml"))
	require.NoError(t, err)
	assert.Equal(t, "site_name: test\nextra_css:\n- css/version-select.css\nextra_javascript:\n- js/version-select.js\n", string(data))
}

func TestUsage(t *testing.T) {
	target := t.TempDir()
	requireOK(t, runCmd(t, "usage", "--target-dir", target))

	data, err := os.ReadFile(filepath.Join(target, "docshelf_deploy.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: docshelf deploy\n---\n"))
	assert.Contains(t, string(data), "**docshelf dev**")
	assert.Contains(t, string(data), "--prop-set")
}

func TestInvalidLogLevel(t *testing.T) {
	res := runCmd(t, "version", "--loglevel", "verbose")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid log level")
}

func TestPropFlagOrder(t *testing.T) {
	var edits []propArg
	set := &propFlag{kind: propSet, edits: &edits}
	del := &propFlag{kind: propDelete, edits: &edits}
	all := &propFlag{kind: propDeleteAll, edits: &edits}

	require.NoError(t, set.Set("a=1"))
	require.NoError(t, all.Set("false"))
	require.NoError(t, del.Set("a"))
	require.NoError(t, all.Set("true"))

	assert.Equal(t, []propArg{
		{kind: propSet, expr: "a=1"},
		{kind: propDelete, expr: "a"},
		{kind: propDeleteAll},
	}, edits)
	assert.Equal(t, "bool", all.Type())
	assert.Equal(t, "string", set.Type())

	parsed, err := propEdits(edits)
	require.NoError(t, err)
	assert.Len(t, parsed, 3)

	_, err = propEdits([]propArg{{kind: propDelete, expr: "a["}})
	assert.Error(t, err)
}
