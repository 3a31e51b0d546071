package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/skillstream/internal/admin"
)

type field struct {
	label    string
	value    string
	password bool
}

// form is a column of labeled text inputs with one focused at a time.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
	keys   keyMap
}

func newForm(title string, fields ...field) *form {
	f := &form{title: title, keys: newKeyMap()}
	for _, fd := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 512
		in.SetValue(fd.value)
		if fd.password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func loginForm() *form {
	return newForm("Login", field{label: "Email"}, field{label: "Password", password: true})
}

func registerForm() *form {
	return newForm("Register", field{label: "Name"}, field{label: "Email"}, field{label: "Password", password: true})
}

// courseForm is empty for a new course and prefilled for an edit.
func courseForm(title string, f admin.Form) *form {
	return newForm(title,
		field{label: "Code", value: f.Code},
		field{label: "Title", value: f.Title},
		field{label: "Description", value: f.Description},
		field{label: "Provider", value: f.Provider},
		field{label: "Image URL", value: f.Image},
		field{label: "Duration (hours)", value: f.Duration},
		field{label: "Course URL", value: f.CourseURL},
		field{label: "Tags (comma separated)", value: f.Tags},
	)
}

func (f *form) Value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

// CourseForm reads the fields of a [courseForm].
func (f *form) CourseForm() admin.Form {
	return admin.Form{
		Code:        f.Value(0),
		Title:       f.Value(1),
		Description: f.Value(2),
		Provider:    f.Value(3),
		Image:       f.Value(4),
		Duration:    f.Value(5),
		CourseURL:   f.Value(6),
		Tags:        f.Value(7),
	}
}

func (f *form) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *form) move(delta int) {
	if len(f.inputs) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Update moves focus on tab and arrow keys and passes other keys to the focused input.
// submitted is true for ctrl+s, or enter on the last field.
func (f *form) Update(msg tea.KeyMsg) (submitted bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.submit):
		return true, nil
	case msg.Type == tea.KeyEnter:
		if f.last() {
			return true, nil
		}
		f.move(1)
		return false, nil
	case key.Matches(msg, f.keys.nextField):
		f.move(1)
		return false, nil
	case key.Matches(msg, f.keys.prevField):
		f.move(-1)
		return false, nil
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *form) View(p *Palette) string {
	var b strings.Builder
	b.WriteString(p.title.Render(f.title))
	b.WriteString("\n")
	for i, in := range f.inputs {
		label := p.muted.Render(f.labels[i])
		if i == f.focus {
			label = p.info.Render(f.labels[i])
		}
		b.WriteString(label + "\n  " + in.View() + "\n")
	}
	return b.String()
}
