package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns the logger shared by all commands. Logs go to w so that
// stdout only carries command output.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "semver-release",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
