package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sveltedoctor/internal/driver"
	"sveltedoctor/internal/ui"
)

type diagnoseOutcome struct {
	result *driver.Result
	err    error
}

func runDiagnoseWithUI(ctx context.Context, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Diagnose(ctx, optsCopy)
		outcomeCh <- diagnoseOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("svelte-doctor", events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
