package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/formblock/formstool/internal/components"
)

// ErrCancelled is returned when the user leaves the wizard without
// confirming.
var ErrCancelled = errors.New("operation cancelled")

// visibleChoices is the height of the base component list.
const visibleChoices = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	promptStyle  = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	DimStyle     = lipgloss.NewStyle().Faint(true)
)

type step int

const (
	stepName step = iota
	stepBase
	stepConfirm
	stepDone
)

// Answers holds the choices made in the wizard.
type Answers struct {
	Name string
	Base BaseComponent
}

// Model is the interactive name, base component and confirm sequence.
type Model struct {
	step     step
	Input    textinput.Model
	Err      string
	Catalog  []BaseComponent
	Cursor   int
	Offset   int
	Confirm  bool
	existing []string

	answers   Answers
	cancelled bool
}

func NewWizard(existing []string) Model {
	ti := textinput.New()
	ti.Placeholder = "lowercase, no spaces (e.g., cancel-button, icon-checkbox)"
	ti.CharLimit = 64
	ti.Width = 60
	ti.Focus()
	return Model{
		step:     stepName,
		Input:    ti,
		Catalog:  Catalog(),
		Confirm:  true,
		existing: existing,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.step == stepName {
			var cmd tea.Cmd
			m.Input, cmd = m.Input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		m.step = stepDone
		return m, tea.Quit
	}

	switch m.step {
	case stepName:
		return m.updateName(key)
	case stepBase:
		return m.updateBase(key.String())
	case stepConfirm:
		return m.updateConfirm(key.String())
	}
	return m, nil
}

func (m Model) updateName(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(key)
		return m, cmd
	}
	name := strings.TrimSpace(m.Input.Value())
	if err := components.ValidateNewName(name, m.existing); err != nil {
		m.Err = err.Error()
		return m, nil
	}
	m.Err = ""
	m.answers.Name = name
	m.Input.Blur()
	m.step = stepBase
	return m, nil
}

func (m Model) updateBase(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Catalog)-1 {
			m.Cursor++
		}
	case "enter":
		m.answers.Base = m.Catalog[m.Cursor]
		m.step = stepConfirm
		return m, nil
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+visibleChoices {
		m.Offset = m.Cursor - visibleChoices + 1
	}
	return m, nil
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.Confirm = true
	case "n", "N":
		m.Confirm = false
	case "left", "right", "tab", "h", "l":
		m.Confirm = !m.Confirm
		return m, nil
	case "enter":
	default:
		return m, nil
	}
	if !m.Confirm {
		m.cancelled = true
	}
	m.step = stepDone
	return m, tea.Quit
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AEM Forms Custom Component Scaffolding Tool") + "\n\n")

	if m.answers.Name == "" || m.step == stepName {
		b.WriteString(promptStyle.Render("What's the name of your custom component?") + "\n")
		b.WriteString(m.Input.View() + "\n")
		if m.Err != "" {
			b.WriteString(errorStyle.Render(m.Err) + "\n")
		}
		return b.String()
	}
	fmt.Fprintf(&b, "%s %s\n\n", promptStyle.Render("Component name:"), valueStyle.Render(m.answers.Name))

	if m.step == stepBase {
		b.WriteString(promptStyle.Render("Which base component should this extend?") + "\n")
		b.WriteString(hintStyle.Render("Use arrow keys to navigate through the list, Enter to select") + "\n")
		end := min(m.Offset+visibleChoices, len(m.Catalog))
		for i := m.Offset; i < end; i++ {
			if i == m.Cursor {
				b.WriteString(cursorStyle.Render("> "+m.Catalog[i].Name) + "\n")
			} else {
				b.WriteString("  " + m.Catalog[i].Name + "\n")
			}
		}
		return b.String()
	}

	b.WriteString(titleStyle.Render("Summary:") + "\n")
	fmt.Fprintf(&b, "   Custom Component name: %s\n", valueStyle.Render(m.answers.Name))
	fmt.Fprintf(&b, "   Base component: %s\n\n", valueStyle.Render(m.answers.Base.Name))
	if m.step == stepConfirm {
		yes, no := "Yes", "No"
		if m.Confirm {
			yes = cursorStyle.Render("[Yes]")
		} else {
			no = cursorStyle.Render("[No]")
		}
		fmt.Fprintf(&b, "%s %s / %s\n", promptStyle.Render("Create this custom component?"), yes, no)
	}
	return b.String()
}

// Result returns the confirmed answers or ErrCancelled.
func (m Model) Result() (Answers, error) {
	if m.cancelled || m.step != stepDone {
		return Answers{}, ErrCancelled
	}
	return m.answers, nil
}

// RunWizard runs the interactive prompts on in and out.
func RunWizard(ctx context.Context, in io.Reader, out io.Writer, existing []string) (Answers, error) {
	p := tea.NewProgram(NewWizard(existing),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return Answers{}, ErrCancelled
		}
		return Answers{}, fmt.Errorf("scaffold prompt: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Answers{}, ErrCancelled
	}
	return m.Result()
}
