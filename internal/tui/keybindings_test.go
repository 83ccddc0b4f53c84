package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/rollbook/pkg/tuitest"
)

func TestDefaultKeyMap_Matches(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		press   tea.KeyPressMsg
	}{
		{"save", k.Save, tuitest.KeyCtrl('s')},
		{"toggle row", k.ToggleRow, tuitest.KeySpace()},
		{"toggle all", k.ToggleAll, tuitest.KeyPress('A')},
		{"next section", k.NextSection, tuitest.KeyTab()},
		{"previous section", k.PrevSection, tuitest.KeyShiftTab()},
		{"down", k.Down, tuitest.KeyPress('j')},
		{"down arrow", k.Down, tuitest.KeyDown()},
		{"quit", k.Quit, tuitest.KeyCtrl('c')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.press, tt.binding), tt.press.String())
		})
	}

	assert.False(t, key.Matches(tuitest.KeyPress('a'), k.ToggleAll))
}

func TestKeyMap_HelpSections(t *testing.T) {
	sections := DefaultKeyMap().HelpSections()
	require.Len(t, sections, 3)

	var keys []string
	for _, s := range sections {
		for _, e := range s.Entries {
			assert.NotEmpty(t, e.Desc, e.Key)
			keys = append(keys, e.Key)
		}
	}
	assert.Contains(t, keys, "ctrl+s")
	assert.Contains(t, keys, "space")
	assert.Contains(t, keys, "A")
}
