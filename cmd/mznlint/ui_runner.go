package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mznlint/internal/pipeline"
	"mznlint/internal/ui"
)

type lintOutcome struct {
	result pipeline.Result
	err    error
}

func runLintWithUI(ctx context.Context, title string, files []string, req *pipeline.Request) (pipeline.Result, error) {
	if req == nil {
		return pipeline.Result{}, fmt.Errorf("missing lint request")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Lint(ctx, &reqCopy)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дренируем канал, иначе pipeline заблокируется на отправке
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
