package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versifine/coinrun/internal/game"
)

func TestChooseInput(t *testing.T) {
	tests := []struct {
		name        string
		enabled     bool
		interactive bool
		wantConsole bool
	}{
		{"console on terminal", true, true, true},
		{"console without terminal falls back", true, false, false},
		{"console disabled", false, true, false},
		{"console disabled without terminal", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, console := chooseInput(tt.enabled, tt.interactive, nil)
			require.NotNil(t, src)
			if tt.wantConsole {
				require.NotNil(t, console)
				assert.Same(t, console, src)
				return
			}
			assert.Nil(t, console)
			scripted, ok := src.(*game.ScriptedInput)
			require.True(t, ok, "want scripted input, got %T", src)
			assert.Equal(t, 1.0, scripted.Input().MoveY)
		})
	}
}
