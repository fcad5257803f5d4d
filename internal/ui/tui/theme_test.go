package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/ferrycp/ferry/internal/config"
)

func TestApplyTheme(t *testing.T) {
	origGreen, origRed := ColorGreen, ColorRed
	t.Cleanup(func() {
		ColorGreen, ColorRed = origGreen, origRed
		rebuildStyles()
	})

	green := "#00ff00"
	ApplyTheme(config.Theme{Green: &green})

	assert.Equal(t, lipgloss.Color("#00ff00"), ColorGreen)
	assert.Equal(t, origRed, ColorRed, "unset entries keep their defaults")
}
