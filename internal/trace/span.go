package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

func nextSeq() uint64 { return seq.Add(1) }

// Span is an open driver phase, analyzed file or rule run. A Span whose
// scope the tracer filters out is inert: every method is a no-op.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// StartPhase opens a driver-scoped span ("diagnose", "scan", "fix") under
// the span already in ctx.
func StartPhase(ctx context.Context, phase string) (context.Context, *Span) {
	return start(ctx, ScopeDriver, phase, nil)
}

// StartFile opens a span for one analyzed file. The span is named by its
// path so a debug trace reads as a list of files.
func StartFile(ctx context.Context, path string) (context.Context, *Span) {
	return start(ctx, ScopeFile, path, nil)
}

// StartRule opens a span for one rule run against path.
func StartRule(ctx context.Context, ruleID, path string) (context.Context, *Span) {
	return start(ctx, ScopeRule, ruleID, map[string]string{"file": path})
}

func start(ctx context.Context, scope Scope, name string, attrs map[string]string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return ctx, &Span{}
	}
	s := &Span{
		t:       t,
		id:      spanIDs.Add(1),
		parent:  CurrentSpan(ctx).SpanID,
		scope:   scope,
		name:    name,
		started: time.Now(),
		attrs:   attrs,
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return WithSpan(ctx, s), s
}

// Set records key=value on the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[key] = value
	return s
}

// End closes the span; detail is a short outcome like "unparseable".
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	s.t.Emit(s.event(KindSpanEnd, now, detail))
	return now.Sub(s.started)
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
	// begin несёт только атрибуты, заданные при открытии
	if len(s.attrs) > 0 {
		ev.Extra = make(map[string]string, len(s.attrs))
		for k, v := range s.attrs {
			ev.Extra[k] = v
		}
	}
	return ev
}
