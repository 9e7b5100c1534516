package chanlog

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Root is the name of the root channel.
const Root string = ""

// defaultLevel is the threshold a channel starts with before anyone
// configures it.
const defaultLevel = zapcore.InfoLevel

// Channel is a named logging channel: a severity threshold plus a list of
// receiver cores that every accepted entry is dispatched to.
type Channel struct {
	name string
	lvl  zap.AtomicLevel

	mu    sync.RWMutex
	recvs []zapcore.Core

	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func newChannel(name string) *Channel {
	ch := &Channel{
		name: name,
		lvl:  zap.NewAtomicLevelAt(defaultLevel),
	}

	// entries produced through the channel carry its name, and the sugared
	// logger renders printf-style messages eagerly, before dispatch
	ch.logger = zap.New(&dispatchCore{ch: ch}).Named(name)
	ch.sugar = ch.logger.Sugar()

	return ch
}

func (c *Channel) Name() string {
	return c.name
}

// Level reports the current severity threshold.
func (c *Channel) Level() zapcore.Level {
	return c.lvl.Level()
}

// SetLevel replaces the severity threshold. Entries below it are dropped
// before reaching any receiver.
func (c *Channel) SetLevel(l zapcore.Level) {
	c.lvl.SetLevel(l)
}

// Receivers returns a copy of the current receiver list.
func (c *Channel) Receivers() []zapcore.Core {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]zapcore.Core, len(c.recvs))
	copy(out, c.recvs)
	return out
}

// SetReceivers replaces the receiver list.
func (c *Channel) SetReceivers(recvs ...zapcore.Core) {
	cp := make([]zapcore.Core, len(recvs))
	copy(cp, recvs)

	c.mu.Lock()
	c.recvs = cp
	c.mu.Unlock()
}

// Logger returns the zap logger bound to this channel.
func (c *Channel) Logger() *zap.Logger {
	return c.logger
}

// Sync flushes every receiver, aggregating failures.
func (c *Channel) Sync() error {
	var err error
	for _, recv := range c.Receivers() {
		err = multierr.Append(err, recv.Sync())
	}
	return err
}

func (c *Channel) Debugf(template string, args ...any) {
	c.sugar.Debugf(template, args...)
}

func (c *Channel) Infof(template string, args ...any) {
	c.sugar.Infof(template, args...)
}

func (c *Channel) Warnf(template string, args ...any) {
	c.sugar.Warnf(template, args...)
}

func (c *Channel) Errorf(template string, args ...any) {
	c.sugar.Errorf(template, args...)
}

var _ zapcore.Core = (*dispatchCore)(nil)

// dispatchCore is the core behind a channel's logger. It applies the channel
// threshold and fans accepted entries out to the receiver list as it stands
// at write time, so receiver swaps take effect immediately.
type dispatchCore struct {
	ch     *Channel
	fields []zapcore.Field
}

func (d *dispatchCore) Enabled(l zapcore.Level) bool {
	return d.ch.lvl.Enabled(l)
}

func (d *dispatchCore) With(fields []zapcore.Field) zapcore.Core {
	child := &dispatchCore{ch: d.ch}
	child.fields = make([]zapcore.Field, 0, len(d.fields)+len(fields))
	child.fields = append(child.fields, d.fields...)
	child.fields = append(child.fields, fields...)
	return child
}

func (d *dispatchCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if d.Enabled(ent.Level) {
		return ce.AddCore(ent, d)
	}
	return ce
}

func (d *dispatchCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := fields
	if len(d.fields) != 0 {
		all = make([]zapcore.Field, 0, len(d.fields)+len(fields))
		all = append(all, d.fields...)
		all = append(all, fields...)
	}

	// each receiver still gets to decline via its own Enabled
	for _, recv := range d.ch.Receivers() {
		if ce := recv.Check(ent, nil); ce != nil {
			ce.Write(all...)
		}
	}

	return nil
}

func (d *dispatchCore) Sync() error {
	return d.ch.Sync()
}
