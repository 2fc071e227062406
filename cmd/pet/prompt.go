package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	promptErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var errPromptCancelled = errors.New("cancelled")

// subjectModel asks for the participant ID before the window opens.
type subjectModel struct {
	input     textinput.Model
	err       string
	done      bool
	cancelled bool
}

func newSubjectModel() subjectModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. P001"
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()
	return subjectModel{input: ti}
}

func (m subjectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m subjectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if strings.TrimSpace(m.input.Value()) == "" {
				m.err = "participant ID is required"
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m subjectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render("Participant ID"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(promptErrStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(promptHintStyle.Render("enter to confirm, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m subjectModel) subject() string {
	return strings.TrimSpace(m.input.Value())
}

func promptSubject() (string, error) {
	final, err := tea.NewProgram(newSubjectModel()).Run()
	if err != nil {
		return "", fmt.Errorf("subject prompt: %w", err)
	}
	m := final.(subjectModel)
	if m.cancelled {
		return "", errPromptCancelled
	}
	return m.subject(), nil
}

// confirmModel waits for the operator to start the EEG recording.
type confirmModel struct {
	confirmed bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}
	return promptTitleStyle.Render("Conecte el equipo de registro y presione ENTER") + "\n" +
		promptHintStyle.Render("esc to cancel") + "\n"
}

func confirmRecorder() error {
	final, err := tea.NewProgram(confirmModel{}).Run()
	if err != nil {
		return fmt.Errorf("recorder prompt: %w", err)
	}
	if final.(confirmModel).cancelled {
		return errPromptCancelled
	}
	return nil
}
