package testutil

import (
	"log"
	"os"
	"testing"
)

// TestLogger returns a logger for use in tests. Tests that assert on
// log output may redirect it with SetOutput.
func TestLogger(t *testing.T) *log.Logger {
	logger := log.New(os.Stdout, "[coursechat-test] ", log.LstdFlags)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}
