package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bryanwahyu/insight/internal/client"
)

// NewProgram builds a program for ctrl and forwards its state changes to it.
// Callbacks also fire from inside Update, so Send must not run on the caller.
func NewProgram(ctx context.Context, ctrl *client.Controller, opts ...tea.ProgramOption) *tea.Program {
	p := tea.NewProgram(New(ctx, ctrl), opts...)
	ctrl.SetOnChange(func(client.State) {
		go p.Send(ChangedMsg{})
	})
	return p
}
