package driver

import "time"

// Stage describes a phase of a scan.
type Stage string

const (
	StageScan    Stage = "scan"
	StageAnalyze Stage = "analyze"
	StageFix     Stage = "fix"
	StageScore   Stage = "score"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole scan when File is
// empty. Total is set on the StageScan done event and carries the number of
// matched files.
type Event struct {
	File        string
	Stage       Stage
	Status      Status
	Diagnostics int
	Total       int
	Err         error
	Elapsed     time.Duration
}

// ProgressSink consumes progress events. Analysis workers call OnEvent
// concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
