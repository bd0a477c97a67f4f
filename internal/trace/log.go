package trace

import (
	"context"
	"time"
)

// Log emits a point event at the given level through the context tracer.
// kv is a flat list of key/value pairs; a trailing odd key is dropped.
func Log(ctx context.Context, level Level, name, detail string, kv ...string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().Allows(level) {
		return
	}
	ev := &Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    ScopeDriver,
		Level:    level,
		ParentID: CurrentSpan(ctx).SpanID,
		Name:     name,
		Detail:   detail,
	}
	if len(kv) >= 2 {
		ev.Extra = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			ev.Extra[kv[i]] = kv[i+1]
		}
	}
	t.Emit(ev)
}

func Error(ctx context.Context, name, detail string, kv ...string) {
	Log(ctx, LevelError, name, detail, kv...)
}

func Warn(ctx context.Context, name, detail string, kv ...string) {
	Log(ctx, LevelWarn, name, detail, kv...)
}

func Info(ctx context.Context, name, detail string, kv ...string) {
	Log(ctx, LevelInfo, name, detail, kv...)
}

func Debug(ctx context.Context, name, detail string, kv ...string) {
	Log(ctx, LevelDebug, name, detail, kv...)
}
