package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"error", LevelError, false},
		{"WARN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"info", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"phase", LevelOff, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWarnRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelWarn, FormatText))

	Info(ctx, "scan", "should not appear")
	Warn(ctx, "rule panicked", "sv-no-export-let", "file", "src/App.svelte", "dangling")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("info event leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "warn") || !strings.Contains(out, "rule panicked (sv-no-export-let) {file=src/App.svelte}") {
		t.Fatalf("unexpected output: %q", out)
	}
}

type spanEvent struct {
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id"`
	Extra    map[string]string `json:"extra"`
}

func decodeEvents(t *testing.T, buf *bytes.Buffer) []spanEvent {
	t.Helper()
	var out []spanEvent
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev spanEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		out = append(out, ev)
	}
	return out
}

func TestNDJSONSpans(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelDebug, FormatNDJSON))

	ctx, root := StartPhase(ctx, "diagnose")
	fctx, file := StartFile(ctx, "src/App.svelte")
	_, rule := StartRule(fctx, "sv-no-export-let", "src/App.svelte")
	rule.Set("diagnostics", "2").End("")
	file.End("")
	root.End("done")

	evs := decodeEvents(t, &buf)
	if len(evs) != 6 {
		t.Fatalf("got %d events, want 6:\n%s", len(evs), buf.String())
	}
	if evs[1].ParentID != root.ID() || evs[2].ParentID != file.ID() {
		t.Fatalf("spans not nested: %+v", evs)
	}
	ruleEnd := evs[3]
	if ruleEnd.Kind != "end" || ruleEnd.Name != "sv-no-export-let" {
		t.Fatalf("rule end = %+v", ruleEnd)
	}
	want := map[string]string{"file": "src/App.svelte", "diagnostics": "2"}
	if diff := cmp.Diff(want, ruleEnd.Extra); diff != "" {
		t.Fatalf("rule end extra mismatch (-want +got):\n%s", diff)
	}
	if last := evs[5]; last.Kind != "end" || last.Name != "diagnose" || last.Detail != "done" {
		t.Fatalf("last event = %+v", last)
	}
}

func TestFileSpansNeedDebug(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelInfo, FormatText))

	fctx, file := StartFile(ctx, "src/App.svelte")
	if file.ID() != 0 || CurrentSpan(fctx).SpanID != 0 {
		t.Fatalf("filtered file span is live: id=%d", file.ID())
	}
	file.Set("diagnostics", "1").End("")
	if buf.Len() != 0 {
		t.Fatalf("file span emitted at info level: %q", buf.String())
	}
	_, phase := StartPhase(ctx, "scan")
	phase.End("")
	if n := strings.Count(buf.String(), "scan"); n != 2 {
		t.Fatalf("driver span events = %d, want 2", n)
	}
}

func TestSpansWithoutTracer(t *testing.T) {
	ctx, s := StartPhase(context.Background(), "diagnose")
	if s.ID() != 0 || s.End("") != 0 {
		t.Fatalf("span without tracer is live")
	}
	if CurrentSpan(ctx).SpanID != 0 {
		t.Fatalf("inert span attached to context")
	}
}

func TestMultiTracerLevel(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiTracer(
		NewStreamTracer(&a, LevelWarn, FormatText),
		NewStreamTracer(&b, LevelDebug, FormatText),
		Nop,
	)
	if m.Level() != LevelDebug {
		t.Fatalf("level = %v", m.Level())
	}
	ctx := WithTracer(context.Background(), m)
	Debug(ctx, "rule", "sv-no-magic-props")
	if a.Len() != 0 || b.Len() == 0 {
		t.Fatalf("per-tracer levels not applied: a=%q b=%q", a.String(), b.String())
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
}
