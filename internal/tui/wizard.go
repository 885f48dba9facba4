package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gabinete-digital/internal/forms"
	"gabinete-digital/internal/models"
)

type wizardSubmittedMsg struct {
	demand *models.Demand
	err    error
}

// Wizard é o programa do assistente público "Gabinete Digital".
type Wizard struct {
	wizard   *forms.Wizard
	creator  forms.DemandCreator
	typeIdx  int
	identity *fieldSet
	details  *fieldSet
	width    int
}

func NewWizard(creator forms.DemandCreator) *Wizard {
	w := &Wizard{
		wizard:  forms.NewWizard(),
		creator: creator,
	}
	w.resetFields()
	return w
}

func (w *Wizard) resetFields() {
	w.typeIdx = 0
	w.identity = newFieldSet(
		newField("nome", "Nome*", "Seu nome completo", 120),
		newField("telefone", "Telefone*", "(12) 99999-0000", 30),
		newField("email", "Email", "opcional", 200),
		newField("bairro", "Bairro*", strings.Join(models.Neighborhoods[:3], ", ")+"...", 80),
	)
	w.details = newFieldSet(
		newField("titulo", "Título*", "Ex.: Poste apagado na rua principal", 200),
		newField("descricao", "Descrição*", "Conte o que está acontecendo", 5000),
	)
}

func (w *Wizard) Init() tea.Cmd {
	return nil
}

func (w *Wizard) syncFields() {
	f := &w.wizard.Fields
	f.Name = w.identity.value("nome")
	f.Phone = w.identity.value("telefone")
	f.Email = w.identity.value("email")
	f.Neighborhood = w.identity.value("bairro")
	f.Title = w.details.value("titulo")
	f.Description = w.details.value("descricao")
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		return w, nil

	case wizardSubmittedMsg:
		w.wizard.FinishSubmit(msg.demand, msg.err)
		return w, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return w, tea.Quit
		}
		if w.wizard.Submitted {
			switch key {
			case "n":
				w.wizard.Reset()
				w.resetFields()
			case "q", "esc", "enter":
				return w, tea.Quit
			}
			return w, nil
		}
		if w.wizard.Loading {
			return w, nil
		}

		switch w.wizard.Step {
		case forms.StepType:
			return w, w.updateType(key)
		case forms.StepIdentification:
			return w, w.updateFields(w.identity, msg)
		case forms.StepDetails:
			return w, w.updateFields(w.details, msg)
		}
	}
	return w, nil
}

func (w *Wizard) updateType(key string) tea.Cmd {
	n := len(models.DemandTypes)
	switch key {
	case "q", "esc":
		return tea.Quit
	case "up", "k", "left", "h":
		w.typeIdx = (w.typeIdx - 1 + n) % n
	case "down", "j", "right", "l":
		w.typeIdx = (w.typeIdx + 1) % n
	case " ", "enter":
		w.wizard.SelectType(models.DemandTypes[w.typeIdx].ID)
		if key == "enter" {
			if err := w.wizard.Next(); err == nil {
				return w.identity.setFocus(0)
			}
		}
	}
	return nil
}

func (w *Wizard) updateFields(fs *fieldSet, msg tea.KeyMsg) tea.Cmd {
	if cmd, ok := navigate(fs, msg); ok {
		return cmd
	}

	switch msg.String() {
	case "esc":
		w.wizard.Back()
		if w.wizard.Step == forms.StepIdentification {
			return w.identity.setFocus(0)
		}
		return nil
	case "enter":
		w.syncFields()
		if fs.focus < len(fs.fields)-1 {
			return fs.next()
		}
		if w.wizard.Step == forms.StepDetails {
			return w.submit()
		}
		if err := w.wizard.Next(); err == nil {
			return w.details.setFocus(0)
		}
		return nil
	}

	changed, cmd := fs.update(msg)
	if changed {
		w.syncFields()
	}
	return cmd
}

func (w *Wizard) submit() tea.Cmd {
	in, err := w.wizard.BeginSubmit()
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		demand, err := w.creator.CreateDemand(ctx, in)
		return wizardSubmittedMsg{demand: demand, err: err}
	}
}

func (w *Wizard) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🏛️  Gabinete Digital"))
	b.WriteString("\n")

	if w.wizard.Submitted {
		b.WriteString(okStyle.Render("✓ Demanda enviada com sucesso!"))
		b.WriteString("\n\n")
		if d := w.wizard.Created; d != nil {
			b.WriteString(fmt.Sprintf("Protocolo: %s\n", d.Protocol))
			b.WriteString(fmt.Sprintf("Status:    %s\n", d.Status.Label()))
		}
		b.WriteString(hintStyle.Render("N → enviar outra demanda    Q → sair"))
		return boxStyle.Render(b.String())
	}

	b.WriteString(w.progress())
	b.WriteString("\n\n")

	switch w.wizard.Step {
	case forms.StepType:
		b.WriteString("Qual o tipo da sua demanda?\n\n")
		for i, opt := range models.DemandTypes {
			cursor := "  "
			if i == w.typeIdx {
				cursor = "› "
			}
			line := fmt.Sprintf("%s%s %s", cursor, opt.Emoji, opt.Label)
			if opt.ID == w.wizard.Fields.Type {
				line = selectedChipStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(hintStyle.Render("↑/↓ escolhe    Enter → continuar    Q → sair"))

	case forms.StepIdentification:
		b.WriteString("Seus dados\n\n")
		b.WriteString(w.identity.view())
		b.WriteString(hintStyle.Render("Enter → próximo    Esc → voltar"))

	case forms.StepDetails:
		b.WriteString(fmt.Sprintf("Demanda: %s\n\n", w.wizard.Fields.Type.Label()))
		b.WriteString(w.details.view())
		if w.wizard.Loading {
			b.WriteString("\n")
			b.WriteString(hintStyle.Render("Enviando..."))
		}
		b.WriteString(hintStyle.Render("Enter no último campo → enviar    Esc → voltar"))
	}

	if w.wizard.Err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(w.wizard.Err))
	}
	return boxStyle.Render(b.String())
}

func (w *Wizard) progress() string {
	steps := []string{"Tipo", "Identificação", "Detalhes"}
	parts := make([]string, 0, len(steps))
	for i, name := range steps {
		label := fmt.Sprintf("%d. %s", i+1, name)
		if forms.Step(i+1) == w.wizard.Step {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
