package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/ssgreg/journald"
	"go.uber.org/zap/zapcore"
)

// journaldPriorities maps zapcore.Level to journald.Priority.
var journaldPriorities = map[zapcore.Level]journald.Priority{
	zapcore.DebugLevel:  journald.PriorityDebug,
	zapcore.InfoLevel:   journald.PriorityInfo,
	zapcore.WarnLevel:   journald.PriorityWarning,
	zapcore.ErrorLevel:  journald.PriorityErr,
	zapcore.FatalLevel:  journald.PriorityCrit,
	zapcore.PanicLevel:  journald.PriorityCrit,
	zapcore.DPanicLevel: journald.PriorityCrit,
}

// NewJournaldCore returns a zapcore.Core that sends log entries to
// systemd-journald under the given syslog identifier. Structured context is
// folded into the message, since fields sent as journal variables are hidden
// in the default journalctl output, which would swallow e.g. error messages.
func NewJournaldCore(identifier string, enab zapcore.LevelEnabler) zapcore.Core {
	return &journaldCore{
		LevelEnabler: enab,
		identifier:   identifier,
	}
}

type journaldCore struct {
	zapcore.LevelEnabler
	context    []zapcore.Field
	identifier string
}

func (c *journaldCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

func (c *journaldCore) Sync() error {
	return nil
}

func (c *journaldCore) With(fields []zapcore.Field) zapcore.Core {
	cc := *c
	cc.context = append(cc.context[:len(cc.context):len(cc.context)], fields...)

	return &cc
}

func (c *journaldCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	pri, ok := journaldPriorities[ent.Level]
	if !ok {
		return errors.Errorf("unknown log level %q", ent.Level)
	}

	message := ent.Message + fieldsMessage(append(c.context, fields...))

	return journald.Send(message, pri, map[string]interface{}{
		"SYSLOG_IDENTIFIER": c.identifier,
	})
}

// fieldsMessage renders structured fields as a sorted, tab-separated suffix
// for the log message. An empty field list yields an empty string, so the
// result can be appended unconditionally.
func fieldsMessage(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rendered := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := enc.Fields[k].(type) {
		case string:
			rendered = append(rendered, fmt.Sprintf("%s=%q", k, v))
		default:
			rendered = append(rendered, fmt.Sprintf("%s=%v", k, v))
		}
	}

	return "\t" + strings.Join(rendered, ", ")
}
