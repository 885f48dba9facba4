package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

// fieldSet agrupa campos de texto com um único foco.
type fieldSet struct {
	fields []field
	focus  int
}

func newField(key, label, placeholder string, limit int) field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	if limit > 0 {
		in.CharLimit = limit
	}
	return field{key: key, label: label, input: in}
}

func newFieldSet(fields ...field) *fieldSet {
	fs := &fieldSet{fields: fields}
	if len(fs.fields) > 0 {
		fs.fields[0].input.Focus()
	}
	return fs
}

func (fs *fieldSet) focused() string {
	if fs.focus < 0 || fs.focus >= len(fs.fields) {
		return ""
	}
	return fs.fields[fs.focus].key
}

// setFocus aceita -1 para deixar nenhum campo com foco.
func (fs *fieldSet) setFocus(i int) tea.Cmd {
	if i >= len(fs.fields) {
		i = len(fs.fields) - 1
	}
	fs.focus = i
	var cmd tea.Cmd
	for j := range fs.fields {
		if j == i {
			cmd = fs.fields[j].input.Focus()
		} else {
			fs.fields[j].input.Blur()
		}
	}
	return cmd
}

func (fs *fieldSet) next() tea.Cmd {
	return fs.setFocus((fs.focus + 1) % len(fs.fields))
}

func (fs *fieldSet) prev() tea.Cmd {
	return fs.setFocus((fs.focus - 1 + len(fs.fields)) % len(fs.fields))
}

func (fs *fieldSet) value(key string) string {
	for _, f := range fs.fields {
		if f.key == key {
			return f.input.Value()
		}
	}
	return ""
}

func (fs *fieldSet) set(key, value string) {
	for i := range fs.fields {
		if fs.fields[i].key == key {
			fs.fields[i].input.SetValue(value)
			return
		}
	}
}

// update repassa a mensagem ao campo com foco e diz se o valor mudou.
func (fs *fieldSet) update(msg tea.Msg) (changed bool, cmd tea.Cmd) {
	if fs.focus < 0 || fs.focus >= len(fs.fields) {
		return false, nil
	}
	f := &fs.fields[fs.focus]
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	return f.input.Value() != before, cmd
}

func (fs *fieldSet) view() string {
	lines := make([]string, 0, len(fs.fields))
	for i, f := range fs.fields {
		style := labelStyle
		if i == fs.focus {
			style = focusedLabelStyle
		}
		lines = append(lines, style.Render(f.label)+" "+f.input.View())
	}
	return strings.Join(lines, "\n")
}

// cycle devolve a opção seguinte a current, voltando ao início.
func cycle(current string, options []string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}
