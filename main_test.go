package logtrap

import (
	"os"
	"testing"

	"go.uber.org/goleak"

	"github.com/logtrap/logtrap/chanlog"
)

func TestMain(m *testing.M) {
	// process shutdown for the default registries happens here; individual
	// tests exercise the audit against their own registries
	goleak.VerifyTestMain(m, goleak.Cleanup(func(code int) {
		chanlog.RunExitHooks()
		os.Exit(code)
	}))
}
