package logtrap

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/logtrap/logtrap/chanlog"
	"github.com/roadrunner-server/errors"
	"go.uber.org/zap/zapcore"
)

const noLogging string = "No logging captured"

// Record is a read-only snapshot of a single captured log entry. Message is
// fully rendered at capture time; structured fields are not part of the
// captured shape.
type Record struct {
	Channel string `json:"channel"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// String renders the record as a two-line block: channel and level, then the
// indented message.
func (r Record) String() string {
	return fmt.Sprintf("%s %s\n  %s", r.Channel, r.Level, r.Message)
}

// Capture intercepts a set of named channels: while installed it is their
// sole receiver with its own threshold, and it buffers every accepted entry
// in arrival order. Uninstall puts the saved channel configuration back.
type Capture struct {
	id    uuid.UUID
	names []string
	level zapcore.Level

	reg   *Registry
	chans *chanlog.Registry
	core  *recorderCore

	skipInstall bool

	oldLevels    map[string]zapcore.Level
	oldReceivers map[string][]zapcore.Core

	records []Record
}

// Option configures a Capture at construction time.
type Option func(*Capture)

// Channels selects the channels to intercept. The default is the single
// root channel.
func Channels(names ...string) Option {
	return func(c *Capture) {
		c.names = names
	}
}

// Threshold sets the minimum severity the capture accepts. The default is
// zapcore.DebugLevel, which captures everything.
func Threshold(l zapcore.Level) Option {
	return func(c *Capture) {
		c.level = l
	}
}

// NoInstall defers installation; the caller invokes Install explicitly.
func NoInstall() Option {
	return func(c *Capture) {
		c.skipInstall = true
	}
}

// WithRegistry tracks the capture in r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(c *Capture) {
		c.reg = r
	}
}

// WithChannelRegistry intercepts channels from cr instead of the default
// chanlog registry.
func WithChannelRegistry(cr *chanlog.Registry) Option {
	return func(c *Capture) {
		c.chans = cr
	}
}

// New builds a capture and, unless NoInstall was given, installs it
// immediately.
func New(opts ...Option) (*Capture, error) {
	c := &Capture{
		id:           uuid.New(),
		names:        []string{chanlog.Root},
		level:        zapcore.DebugLevel,
		reg:          DefaultRegistry,
		chans:        chanlog.Default(),
		oldLevels:    make(map[string]zapcore.Level),
		oldReceivers: make(map[string][]zapcore.Core),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.core = &recorderCore{c: c}

	if c.skipInstall {
		return c, nil
	}

	err := c.Install()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// ID is the capture's identity, used by the shutdown audit to tell leaked
// instances apart.
func (c *Capture) ID() uuid.UUID {
	return c.id
}

// Names returns the channel names this capture was configured with.
func (c *Capture) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Installed reports whether the capture is currently tracked by its
// registry, which holds exactly while it is swapped into its channels.
func (c *Capture) Installed() bool {
	return c.reg.contains(c)
}

// Install snapshots each channel's threshold and receiver list, then swaps
// this capture in as the sole receiver with the configured threshold.
// Installing an already-installed capture is an error: it would overwrite
// the saved state with the capture's own and corrupt the eventual restore.
func (c *Capture) Install() error {
	const op = errors.Op("logtrap_install")

	if c.reg.contains(c) {
		return errors.E(op, errors.Errorf("capture %s is already installed on channels %q", c.id, c.names))
	}

	for _, name := range c.names {
		ch := c.chans.Get(name)
		c.oldLevels[name] = ch.Level()
		c.oldReceivers[name] = ch.Receivers()

		ch.SetLevel(c.level)
		ch.SetReceivers(c.core)
	}

	c.reg.add(c)
	return nil
}

// Uninstall restores every intercepted channel's saved threshold and
// receiver list and removes the capture from its registry. Calling it on a
// capture that is not installed is a no-op, so a second call has the same
// effect as the first.
func (c *Capture) Uninstall() {
	if !c.reg.contains(c) {
		return
	}

	for _, name := range c.names {
		ch := c.chans.Get(name)
		ch.SetLevel(c.oldLevels[name])
		// any stray reference to this capture in the saved list must not
		// survive the restore
		ch.SetReceivers(scrub(c.oldReceivers[name], c.core)...)
	}

	c.reg.remove(c)
}

// Clear empties the record buffer. Installation state is unaffected.
func (c *Capture) Clear() {
	c.records = nil
}

// Actual returns a snapshot of the captured records in arrival order. Each
// call re-walks the current buffer, so records appended or cleared since a
// previous call are reflected.
func (c *Capture) Actual() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Check compares the expected sequence against the captured one and returns
// a descriptive error on the first divergence, or nil when they match
// exactly in order.
func (c *Capture) Check(expected ...Record) error {
	return compareRecords(expected, c.Actual())
}

// String renders the captured records, one two-line block per record, or
// "No logging captured" when the buffer is empty.
func (c *Capture) String() string {
	if len(c.records) == 0 {
		return noLogging
	}

	blocks := make([]string, len(c.records))
	for i := range c.records {
		blocks[i] = c.records[i].String()
	}

	return strings.Join(blocks, "\n")
}

// JSON renders the captured records as a JSON array.
func (c *Capture) JSON() ([]byte, error) {
	const op = errors.Op("logtrap_json")

	b, err := json.Marshal(c.Actual())
	if err != nil {
		return nil, errors.E(op, err)
	}

	return b, nil
}

var _ zapcore.Core = (*recorderCore)(nil)

// recorderCore is the zapcore.Core face of a Capture: it is what actually
// sits in a channel's receiver list. Kept separate so the capture's Check
// keeps the comparison signature rather than zapcore's.
type recorderCore struct {
	c *Capture
}

func (r *recorderCore) Enabled(l zapcore.Level) bool {
	return r.c.level.Enabled(l)
}

func (r *recorderCore) With(_ []zapcore.Field) zapcore.Core {
	return r
}

func (r *recorderCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(ent.Level) {
		return ce.AddCore(ent, r)
	}
	return ce
}

func (r *recorderCore) Write(ent zapcore.Entry, _ []zapcore.Field) error {
	r.c.records = append(r.c.records, Record{
		Channel: ent.LoggerName,
		Level:   ent.Level.CapitalString(),
		Message: ent.Message,
	})
	return nil
}

func (r *recorderCore) Sync() error {
	return nil
}

func scrub(recvs []zapcore.Core, self zapcore.Core) []zapcore.Core {
	out := make([]zapcore.Core, 0, len(recvs))
	for _, recv := range recvs {
		if recv == self {
			continue
		}
		out = append(out, recv)
	}
	return out
}
