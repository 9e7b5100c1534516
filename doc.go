// Package logtrap captures log entries emitted through named chanlog
// channels so tests can assert on what was logged.
//
// A [Capture] installs itself as the sole receiver of one or more channels,
// saving each channel's prior threshold and receiver list. Every entry the
// channels emit while the capture is installed is buffered as a
// (channel, level, message) [Record]; [Capture.Check] compares the buffer
// against an expected sequence and reports the first divergence. Uninstall
// restores the saved channel state exactly and is idempotent.
//
// Installed captures are tracked in a [Registry] so that [UninstallAll] can
// tear everything down and a shutdown audit can warn about captures a test
// forgot to uninstall. [Wrap] brackets a function with install/uninstall,
// and [Attach] ties a capture's lifetime to a testing.TB via t.Cleanup.
package logtrap
