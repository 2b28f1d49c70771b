package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/scheduler"
)

// timerSource delivers wall-clock fires and vets them against later re-arms
type timerSource interface {
	Events() <-chan scheduler.Fire
	Accept(f scheduler.Fire) (common.Event, bool)
}

// firedMsg carries a raw fire from the scheduler goroutine
type firedMsg struct {
	fire scheduler.Fire
}

// timerMsg carries an accepted session timer into the update loop
type timerMsg struct {
	event common.Event
}

// timersClosedMsg is sent once the scheduler stops delivering
type timersClosedMsg struct{}

// waitForTimer blocks on the scheduler channel and delivers one fire
func waitForTimer(events <-chan scheduler.Fire) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-events
		if !ok {
			return timersClosedMsg{}
		}
		return firedMsg{fire: f}
	}
}
