package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"srchash/internal/pipeline"
)

// RunWithProgress runs work while rendering its progress events to out.
// work receives the sink to report to; the UI stops when work returns.
func RunWithProgress(out io.Writer, title string, files []string, work func(sink pipeline.ProgressSink) error) error {
	events := make(chan pipeline.Event, 256)
	errCh := make(chan error, 1)

	go func() {
		err := work(pipeline.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	model := NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Drain so work never blocks on a full channel.
		for range events {
		}
	}
	err := <-errCh
	if uiErr != nil {
		return uiErr
	}
	return err
}
