// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"
	"os"
)

var (
	// globals used to patch over calls to os.Exit() and to capture output during test

	osExit              = os.Exit
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
)

func logStdOut(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(outWriter, format, args...)
}

func wrapFatalln(msg string, err error) {
	if err == nil {
		_, _ = fmt.Fprintf(errWriter, "error: %s\n", msg)
	} else {
		_, _ = fmt.Fprintf(errWriter, "error: %s: %v\n", msg, err)
	}
	osExit(1)
}
