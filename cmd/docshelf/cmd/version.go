// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// Build information, set at link time
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the docshelf binary and the git it drives
type VersionInfo struct {
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
	Git       string `json:"git,omitempty"`
}

// NewVersionInfo reports the build information, with version "dev" for unreleased builds
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
	if Version != "" {
		ver.Version = Version
		ver.GitState = "clean"
	}
	if GitState != "" {
		ver.GitState = GitState
	}
	return ver
}

// withGit fills in the version of the git executable found on the PATH
func (v VersionInfo) withGit(ctx context.Context) VersionInfo {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "git", "--version").Output()
	if err != nil {
		v.Git = "not found"
		return v
	}
	v.Git = strings.TrimPrefix(strings.TrimSpace(string(out)), "git version ")
	return v
}

func (v VersionInfo) String() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "docshelf %s\n", v.Version)
	w := tabwriter.NewWriter(&b, 0, 4, 1, ' ', 0)
	for _, line := range [][2]string{
		{"Build date", v.BuildDate},
		{"Commit", v.GitCommit},
		{"Working tree", v.GitState},
		{"Go", v.GoVersion},
		{"Git", v.Git},
	} {
		if line[1] != "" {
			_, _ = fmt.Fprintf(w, "%s:\t%s\n", line[0], line[1])
		}
	}
	_ = w.Flush()
	return b.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version of docshelf",
	Long: `Prints the version of docshelf, how it was built and which git it runs.

Deployments shell out to git, so the git version is part of the report.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := NewVersionInfo().withGit(cmd.Context())
		if !docshelfFlags.version.json {
			logStdOut("%s", info)
			return
		}
		data, err := json.Marshal(info)
		if err != nil {
			wrapFatalln("cannot encode version", err)
			return
		}
		logStdOut("%s\n", data)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	addJSONFlag(versionCmd, &docshelfFlags.version.json)
}
