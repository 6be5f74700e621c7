package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/haneol/mundap/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with mundap styling. Answers are free
// Korean prose, so there is no input filtering beyond a length cap.
type TextInput struct {
	Model     textinput.Model
	MaxRunes  int
	submitted bool
	passed    bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, maxRunes int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxRunes > 0 {
		ti.CharLimit = maxRunes
	}

	return TextInput{
		Model:    ti,
		MaxRunes: maxRunes,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input with a pass/fail marker once submitted.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.submitted {
		if t.passed {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Submit marks the input as submitted with the evaluation outcome.
func (t *TextInput) Submit(passed bool) {
	t.submitted = true
	t.passed = passed
}
