package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gabinete-digital/internal/forms"
)

type messageSentMsg struct {
	err error
}

// MessageForm é o programa do formulário "Fale Conosco".
type MessageForm struct {
	form   *forms.MessageForm
	sender forms.MessageSender
	fields *fieldSet
}

func NewMessageForm(sender forms.MessageSender) *MessageForm {
	c := &MessageForm{form: &forms.MessageForm{}, sender: sender}
	c.resetFields()
	return c
}

func (c *MessageForm) resetFields() {
	c.fields = newFieldSet(
		newField("nome", "Nome*", "", 120),
		newField("email", "Email*", "voce@exemplo.com", 200),
		newField("telefone", "Telefone", "opcional", 30),
		newField("assunto", "Assunto*", "", 200),
		newField("mensagem", "Mensagem*", "", 5000),
	)
}

func (c *MessageForm) Init() tea.Cmd {
	return nil
}

func (c *MessageForm) sync() {
	c.form.Name = c.fields.value("nome")
	c.form.Email = c.fields.value("email")
	c.form.Phone = c.fields.value("telefone")
	c.form.Subject = c.fields.value("assunto")
	c.form.Body = c.fields.value("mensagem")
}

func (c *MessageForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageSentMsg:
		c.form.FinishSubmit(msg.err)
		return c, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case key == "ctrl+c":
			return c, tea.Quit
		case c.form.Sent:
			switch key {
			case "n":
				c.form.Reset()
				c.resetFields()
			case "q", "esc", "enter":
				return c, tea.Quit
			}
			return c, nil
		case c.form.Sending:
			return c, nil
		case key == "esc":
			return c, tea.Quit
		case key == "ctrl+s":
			return c, c.submit()
		}

		if cmd, ok := navigate(c.fields, msg); ok {
			return c, cmd
		}
		if key == "enter" {
			if c.fields.focus < len(c.fields.fields)-1 {
				return c, c.fields.next()
			}
			return c, c.submit()
		}
	}

	changed, cmd := c.fields.update(msg)
	if changed {
		c.sync()
	}
	return c, cmd
}

func (c *MessageForm) submit() tea.Cmd {
	c.sync()
	in, err := c.form.BeginSubmit()
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		_, err := c.sender.SendMessage(ctx, in)
		return messageSentMsg{err: err}
	}
}

func (c *MessageForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("✉️  Fale Conosco"))
	b.WriteString("\n")

	if c.form.Sent {
		b.WriteString(okStyle.Render("✓ Mensagem enviada! Responderemos em breve."))
		b.WriteString(hintStyle.Render("N → nova mensagem    Q → sair"))
		return boxStyle.Render(b.String())
	}

	b.WriteString(c.fields.view())
	if c.form.Sending {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("Enviando..."))
	}
	if c.form.Err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(c.form.Err))
	}
	b.WriteString(hintStyle.Render("Tab → próximo campo    Ctrl+S → enviar    Esc → sair"))
	return boxStyle.Render(b.String())
}
