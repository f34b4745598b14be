package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName     = "Name"
	fieldEmail    = "Email"
	fieldPassword = "Password"
)

// authForm is a vertical stack of text inputs with one focused field.
type authForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newAuthForm(labels ...string) authForm {
	f := authForm{labels: labels, inputs: make([]textinput.Model, len(labels))}
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 254
		in.Width = 40
		if label == fieldPassword {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func newLoginForm() authForm  { return newAuthForm(fieldEmail, fieldPassword) }
func newSignupForm() authForm { return newAuthForm(fieldName, fieldEmail, fieldPassword) }

// value returns the input for label, or "" when the form has no such field.
func (f authForm) value(label string) string {
	for i, l := range f.labels {
		if l == label {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *authForm) set(label, value string) {
	for i, l := range f.labels {
		if l == label {
			f.inputs[i].SetValue(value)
		}
	}
}

func (f *authForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f authForm) onLastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f authForm) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = styles.focus.Render(label)
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
