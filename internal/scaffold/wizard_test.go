package scaffold

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

func TestWizardInvalidNameReprompts(t *testing.T) {
	m := NewWizard([]string{"icon-radio-group"})

	m = typeText(t, m, "Bad_Name")
	m, _ = press(t, m, tea.KeyEnter)
	if m.step != stepName {
		t.Fatalf("step = %v, want name step", m.step)
	}
	if m.Err != "Component name must be lowercase" {
		t.Fatalf("err = %q", m.Err)
	}
	if !strings.Contains(m.View(), "Component name must be lowercase") {
		t.Fatal("validation message not rendered")
	}

	m.Input.SetValue("icon-radio-group")
	m, _ = press(t, m, tea.KeyEnter)
	if !strings.Contains(m.Err, "already exists") {
		t.Fatalf("err = %q", m.Err)
	}
}

func TestWizardFullFlow(t *testing.T) {
	m := NewWizard(nil)
	m = typeText(t, m, "icon-toggle")
	m, _ = press(t, m, tea.KeyEnter)
	if m.step != stepBase {
		t.Fatalf("step = %v, want base step", m.step)
	}

	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyEnter)
	if m.step != stepConfirm {
		t.Fatalf("step = %v, want confirm step", m.step)
	}
	if !strings.Contains(m.View(), "Base component:") {
		t.Fatal("summary not rendered")
	}

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("confirm should quit")
	}
	got, err := m.Result()
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if got.Name != "icon-toggle" || got.Base.Name != "Checkbox" {
		t.Fatalf("answers = %+v", got)
	}
}

func TestWizardListScrollsInWindow(t *testing.T) {
	m := NewWizard(nil)
	m.Input.SetValue("x")
	m, _ = press(t, m, tea.KeyEnter)

	for i := 0; i < 10; i++ {
		m, _ = press(t, m, tea.KeyDown)
	}
	if m.Cursor != 10 || m.Offset != 3 {
		t.Fatalf("cursor/offset = %d/%d, want 10/3", m.Cursor, m.Offset)
	}
	view := m.View()
	if strings.Contains(view, "  Button\n") || !strings.Contains(view, "Reset Button") {
		t.Fatalf("unexpected window:\n%s", view)
	}

	for i := 0; i < 20; i++ {
		m, _ = press(t, m, tea.KeyDown)
	}
	if m.Cursor != len(m.Catalog)-1 {
		t.Fatalf("cursor = %d, want last", m.Cursor)
	}
}

func TestWizardDeclineAndEscCancel(t *testing.T) {
	m := NewWizard(nil)
	m.Input.SetValue("stars")
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("declining should quit")
	}
	if _, err := m.Result(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}

	m = NewWizard(nil)
	m, cmd = press(t, m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if _, err := m.Result(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}

	m = NewWizard(nil)
	m, _ = press(t, m, tea.KeyCtrlC)
	if _, err := m.Result(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}
