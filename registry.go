package logtrap

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Registry tracks currently installed captures. A capture is registered
// exactly while it is swapped into its channels, so registry membership is
// the installation state.
//
// The zero value is not usable; call NewRegistry. Tests that need isolation
// run against their own registry via WithRegistry; everything else shares
// DefaultRegistry.
type Registry struct {
	installed []*Capture

	auditHooked bool
	warnTo      io.Writer
}

func NewRegistry() *Registry {
	return &Registry{
		warnTo: os.Stderr,
	}
}

// DefaultRegistry is the process-wide registry captures use unless
// constructed with WithRegistry.
var DefaultRegistry = NewRegistry()

// SetWarningWriter redirects the shutdown audit's advisory output. The
// default is standard error.
func (r *Registry) SetWarningWriter(w io.Writer) {
	r.warnTo = w
}

// UninstallAll uninstalls every currently registered capture; afterward the
// registry is empty.
func (r *Registry) UninstallAll() {
	snapshot := make([]*Capture, len(r.installed))
	copy(snapshot, r.installed)

	for _, c := range snapshot {
		c.Uninstall()
	}
}

// UninstallAll uninstalls every capture registered with DefaultRegistry.
func UninstallAll() {
	DefaultRegistry.UninstallAll()
}

// add registers the capture and, on the registry's first ever install,
// hooks the shutdown audit into the capture's channel registry.
func (r *Registry) add(c *Capture) {
	r.installed = append(r.installed, c)

	if !r.auditHooked {
		c.chans.OnExit(r.audit)
		r.auditHooked = true
	}
}

func (r *Registry) remove(c *Capture) {
	for i := range r.installed {
		if r.installed[i] == c {
			r.installed = append(r.installed[:i], r.installed[i+1:]...)
			return
		}
	}
}

func (r *Registry) contains(c *Capture) bool {
	for i := range r.installed {
		if r.installed[i] == c {
			return true
		}
	}
	return false
}

// audit runs at process shutdown. It is advisory only: captures left
// installed get listed on the warning writer, nothing fails.
func (r *Registry) audit() {
	if len(r.installed) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("logtrap: captures not uninstalled by shutdown, channels captured:\n")
	for _, c := range r.installed {
		fmt.Fprintf(&b, "  %s: %q\n", c.id, c.names)
	}

	_, _ = io.WriteString(r.warnTo, b.String())
}
