package logtrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	chans, _, base := testEnv()

	var seen *Capture
	run := Wrap(func(c *Capture) error {
		seen = c
		require.True(t, c.Installed())

		chans.Get("app").Infof("inside")
		return c.Check(Record{"app", "INFO", "inside"})
	}, append(base, Channels("app"))...)

	require.NoError(t, run())
	require.NotNil(t, seen)
	require.False(t, seen.Installed())
}

func TestWrapPropagatesError(t *testing.T) {
	_, _, base := testEnv()

	var seen *Capture
	run := Wrap(func(c *Capture) error {
		seen = c
		return assert.AnError
	}, append(base, Channels("app"))...)

	require.ErrorIs(t, run(), assert.AnError)
	require.False(t, seen.Installed())
}

func TestWrapUninstallsOnPanic(t *testing.T) {
	_, _, base := testEnv()

	var seen *Capture
	run := Wrap(func(c *Capture) error {
		seen = c
		panic("boom")
	}, append(base, Channels("app"))...)

	require.PanicsWithValue(t, "boom", func() { _ = run() })
	require.False(t, seen.Installed())
}

func TestWrapInstallsDeferredCapture(t *testing.T) {
	_, _, base := testEnv()

	run := Wrap(func(c *Capture) error {
		require.True(t, c.Installed())
		return nil
	}, append(base, Channels("app"), NoInstall())...)

	require.NoError(t, run())
}

func TestWrapFreshCapturePerRun(t *testing.T) {
	chans, _, base := testEnv()

	run := Wrap(func(c *Capture) error {
		chans.Get("app").Infof("once")
		return c.Check(Record{"app", "INFO", "once"})
	}, append(base, Channels("app"))...)

	require.NoError(t, run())
	// a second run starts with an empty buffer
	require.NoError(t, run())
}

func TestAttach(t *testing.T) {
	chans, reg, base := testEnv()

	var c *Capture
	t.Run("captures for the subtest", func(t *testing.T) {
		c = Attach(t, append(base, Channels("app.db"))...)
		require.True(t, c.Installed())

		chans.Get("app.db").Errorf("connection failed")
		require.NoError(t, c.Check(Record{"app.db", "ERROR", "connection failed"}))
	})

	// t.Cleanup ran when the subtest finished
	require.False(t, c.Installed())
	require.Empty(t, reg.installed)
}
