// Package tui implements the interactive terminal UI for ordo-mount.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kriansa/ordo-mount/internal/drive"
)

// Run launches the UI and blocks until the user quits
func Run(ctx context.Context, mgr drive.Manager, session *drive.Session) error {
	p := tea.NewProgram(
		NewModel(ctx, mgr, session),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
