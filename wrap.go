package logtrap

import "testing"

// Wrap brackets fn with a capture: the returned function installs a fresh
// capture, hands it to fn, and uninstalls it unconditionally when fn
// returns or panics.
func Wrap(fn func(c *Capture) error, opts ...Option) func() error {
	return func() error {
		c, err := New(opts...)
		if err != nil {
			return err
		}

		if !c.Installed() {
			err = c.Install()
			if err != nil {
				return err
			}
		}

		defer c.Uninstall()
		return fn(c)
	}
}

// Attach installs a capture for the duration of a test and schedules its
// uninstall via t.Cleanup.
func Attach(t testing.TB, opts ...Option) *Capture {
	t.Helper()

	c, err := New(opts...)
	if err != nil {
		t.Fatalf("install capture: %v", err)
	}

	t.Cleanup(c.Uninstall)
	return c
}
