package logtrap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/logtrap/logtrap/chanlog"
)

func TestUninstallAll(t *testing.T) {
	chans, reg, base := testEnv()

	db := chans.Get("app.db")
	db.SetLevel(zapcore.WarnLevel)
	httpCh := chans.Get("app.http")
	httpCh.SetLevel(zapcore.ErrorLevel)

	c1, err := New(append(base, Channels("app.db"))...)
	require.NoError(t, err)
	c2, err := New(append(base, Channels("app.http"))...)
	require.NoError(t, err)

	require.True(t, c1.Installed())
	require.True(t, c2.Installed())

	reg.UninstallAll()

	require.False(t, c1.Installed())
	require.False(t, c2.Installed())
	require.Empty(t, reg.installed)

	// both channels back to their original configuration
	require.Equal(t, zapcore.WarnLevel, db.Level())
	require.Empty(t, db.Receivers())
	require.Equal(t, zapcore.ErrorLevel, httpCh.Level())
	require.Empty(t, httpCh.Receivers())
}

func TestAuditWarnsAboutLeakedCaptures(t *testing.T) {
	chans := chanlog.NewRegistry()
	reg := NewRegistry()

	var buf bytes.Buffer
	reg.SetWarningWriter(&buf)

	leaked, err := New(Channels("app.db", "app.http"), WithRegistry(reg), WithChannelRegistry(chans))
	require.NoError(t, err)

	clean, err := New(Channels("app.cache"), WithRegistry(reg), WithChannelRegistry(chans))
	require.NoError(t, err)
	clean.Uninstall()

	chans.RunExitHooks()

	out := buf.String()
	require.Contains(t, out, "not uninstalled by shutdown")
	require.Contains(t, out, leaked.ID().String())
	require.Contains(t, out, "app.db")
	require.Contains(t, out, "app.http")
	require.NotContains(t, out, "app.cache")

	leaked.Uninstall()
}

func TestAuditSilentWhenAllUninstalled(t *testing.T) {
	chans := chanlog.NewRegistry()
	reg := NewRegistry()

	var buf bytes.Buffer
	reg.SetWarningWriter(&buf)

	c, err := New(Channels("app"), WithRegistry(reg), WithChannelRegistry(chans))
	require.NoError(t, err)
	c.Uninstall()

	chans.RunExitHooks()
	require.Empty(t, buf.String())
}

func TestAuditHookRegisteredOnce(t *testing.T) {
	chans := chanlog.NewRegistry()
	reg := NewRegistry()

	var buf bytes.Buffer
	reg.SetWarningWriter(&buf)

	c1, err := New(Channels("a"), WithRegistry(reg), WithChannelRegistry(chans))
	require.NoError(t, err)
	c2, err := New(Channels("b"), WithRegistry(reg), WithChannelRegistry(chans))
	require.NoError(t, err)

	chans.RunExitHooks()

	// one warning block, not one per install
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("not uninstalled by shutdown")))

	c1.Uninstall()
	c2.Uninstall()
}
