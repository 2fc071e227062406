package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeKeys(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestSubjectModelRequiresValue(t *testing.T) {
	var m tea.Model = newSubjectModel()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	sm := m.(subjectModel)
	assert.False(t, sm.done)
	assert.Contains(t, sm.View(), "participant ID is required")

	m = typeKeys(m, " P01 ")
	assert.NotContains(t, m.View(), "participant ID is required", "typing clears the error")

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sm = m.(subjectModel)
	assert.True(t, sm.done)
	assert.Equal(t, "P01", sm.subject())
	assert.Empty(t, sm.View())
}

func TestSubjectModelCancel(t *testing.T) {
	var m tea.Model = newSubjectModel()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.(subjectModel).cancelled)
}

func TestConfirmModel(t *testing.T) {
	var m tea.Model = confirmModel{}
	assert.Contains(t, m.View(), "Conecte el equipo de registro")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.False(t, m.(confirmModel).confirmed)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.(confirmModel).confirmed)

	m, _ = confirmModel{}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.(confirmModel).cancelled)
}
