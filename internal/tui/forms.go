package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gabinete-digital/internal/forms"
	"gabinete-digital/internal/models"
)

// formClosedMsg fecha o formulário aberto. notice vai para a barra de status.
type formClosedMsg struct {
	saved  bool
	notice string
}

type formSubmittedMsg struct {
	notice string
	err    error
}

// formScreen é um formulário de cadastro sobre a aba atual.
type formScreen interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
}

func closeForm(saved bool, notice string) tea.Cmd {
	return func() tea.Msg { return formClosedMsg{saved: saved, notice: notice} }
}

func submit(run func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		notice, err := run(ctx)
		return formSubmittedMsg{notice: notice, err: err}
	}
}

func formFooter(saving bool, errMsg string, keys string) string {
	var b strings.Builder
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(errMsg))
	}
	if saving {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("Salvando..."))
	}
	b.WriteString(hintStyle.Render(keys))
	return b.String()
}

// navigate trata as teclas comuns de navegação entre campos.
func navigate(fs *fieldSet, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		return fs.next(), true
	case "shift+tab", "up":
		return fs.prev(), true
	}
	return nil, false
}

// newsForm desenha forms.NewsForm. O campo slug acompanha o título até
// ser editado diretamente.
type newsForm struct {
	form    *forms.NewsForm
	fields  *fieldSet
	creator forms.NewsCreator
}

func newNewsForm(creator forms.NewsCreator) *newsForm {
	f := &newsForm{
		form:    forms.NewNewsForm(),
		creator: creator,
		fields: newFieldSet(
			newField("titulo", "Título*", "Título da notícia", 200),
			newField("slug", "Slug*", "gerado-do-titulo", 200),
			newField("resumo", "Resumo*", "Uma ou duas frases", 500),
			newField("conteudo", "Conteúdo*", "Texto completo", 0),
			newField("imagem", "Imagem (URL)", "https://...", 500),
			newField("categoria", "Categoria", "", 60),
			newField("autor", "Autor", "", 120),
		),
	}
	f.fields.set("categoria", f.form.Category)
	f.fields.set("autor", f.form.Author)
	return f
}

func (f *newsForm) apply(key, value string) {
	switch key {
	case "titulo":
		f.form.SetTitle(value)
		f.fields.set("slug", f.form.Slug())
	case "slug":
		f.form.SetSlug(value)
	case "resumo":
		f.form.Summary = value
	case "conteudo":
		f.form.Body = value
	case "imagem":
		f.form.ImageURL = value
	case "categoria":
		f.form.Category = value
	case "autor":
		f.form.Author = value
	}
}

func (f *newsForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		f.form.FinishSubmit(msg.err)
		if msg.err != nil {
			return nil
		}
		return closeForm(true, msg.notice)

	case tea.KeyMsg:
		if cmd, ok := navigate(f.fields, msg); ok {
			return cmd
		}
		switch msg.String() {
		case "esc":
			return closeForm(false, "")
		case "ctrl+t":
			options := make([]string, 0, len(models.NewsStatuses))
			for _, s := range models.NewsStatuses {
				options = append(options, string(s))
			}
			f.form.Status = models.NewsStatus(cycle(string(f.form.Status), options))
			return nil
		case "ctrl+s":
			in, err := f.form.BeginSubmit()
			if err != nil {
				return nil
			}
			return submit(func(ctx context.Context) (string, error) {
				article, err := f.creator.CreateNews(ctx, in)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Notícia criada: /noticias/%s", article.Slug), nil
			})
		}
	}

	changed, cmd := f.fields.update(msg)
	if changed {
		key := f.fields.focused()
		f.apply(key, f.fields.value(key))
	}
	return cmd
}

func (f *newsForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Nova notícia"))
	b.WriteString("\n")
	b.WriteString(f.fields.view())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Status") + " " + f.form.Status.Label())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Modo do slug") + " " + f.form.SlugMode().String())
	b.WriteString(formFooter(f.form.Saving, f.form.Err, "Tab → próximo campo    Ctrl+T → status    Ctrl+S → salvar    Esc → cancelar"))
	return boxStyle.Render(b.String())
}

// contactForm desenha forms.ContactForm com o editor de tags: as tags
// sugeridas são alternadas com espaço e a tag digitada entra com Enter.
type contactForm struct {
	form      *forms.ContactForm
	fields    *fieldSet
	creator   forms.ContactCreator
	tagCursor int
}

const tagPickerField = "tags"

func newContactForm(creator forms.ContactCreator) *contactForm {
	return &contactForm{
		form:    forms.NewContactForm(),
		creator: creator,
		fields: newFieldSet(
			newField("nome", "Nome*", "Nome completo", 120),
			newField("telefone", "Telefone*", "(12) 99999-0000", 30),
			newField("email", "Email", "", 200),
			newField("bairro", "Bairro*", "", 80),
			newField(tagPickerField, "Sugeridas", "←/→ escolhe, espaço marca", 0),
			newField("tag", "Nova tag", "Enter adiciona", 60),
			newField("notas", "Notas", "", 2000),
		),
	}
}

func (f *contactForm) apply(key, value string) {
	switch key {
	case "nome":
		f.form.Name = value
	case "telefone":
		f.form.Phone = value
	case "email":
		f.form.Email = value
	case "bairro":
		f.form.Neighborhood = value
	case "notas":
		f.form.Notes = value
	}
}

func (f *contactForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		f.form.FinishSubmit(msg.err)
		if msg.err != nil {
			return nil
		}
		return closeForm(true, msg.notice)

	case tea.KeyMsg:
		if cmd, ok := navigate(f.fields, msg); ok {
			return cmd
		}
		key := msg.String()
		switch key {
		case "esc":
			return closeForm(false, "")
		case "ctrl+a":
			f.form.IsSupporter = !f.form.IsSupporter
			return nil
		case "ctrl+s":
			in, err := f.form.BeginSubmit()
			if err != nil {
				return nil
			}
			return submit(func(ctx context.Context) (string, error) {
				contact, err := f.creator.CreateContact(ctx, in)
				if err != nil {
					return "", err
				}
				return "Contato criado: " + contact.Name, nil
			})
		}

		switch f.fields.focused() {
		case tagPickerField:
			f.pickTag(key)
			return nil
		case "tag":
			switch key {
			case "enter":
				if f.form.AddCustomTag(f.fields.value("tag")) {
					f.fields.set("tag", "")
				}
				return nil
			case "backspace":
				if f.fields.value("tag") == "" && len(f.form.Tags) > 0 {
					f.form.RemoveTag(f.form.Tags[len(f.form.Tags)-1])
					return nil
				}
			}
		}
	}

	changed, cmd := f.fields.update(msg)
	if changed {
		key := f.fields.focused()
		f.apply(key, f.fields.value(key))
	}
	return cmd
}

func (f *contactForm) pickTag(key string) {
	n := len(models.SuggestedTags)
	switch key {
	case "left":
		f.tagCursor = (f.tagCursor - 1 + n) % n
	case "right":
		f.tagCursor = (f.tagCursor + 1) % n
	case " ", "enter":
		f.form.ToggleTag(models.SuggestedTags[f.tagCursor])
	}
}

func (f *contactForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Novo contato"))
	b.WriteString("\n")
	b.WriteString(f.fields.view())
	b.WriteString("\n")

	chips := make([]string, 0, len(models.SuggestedTags))
	for i, tag := range models.SuggestedTags {
		label := tag
		if f.form.HasTag(tag) {
			label = "✓ " + tag
		}
		style := chipStyle
		if i == f.tagCursor && f.fields.focused() == tagPickerField {
			style = selectedChipStyle
		}
		chips = append(chips, style.Render(label))
	}
	b.WriteString(labelStyle.Render("") + " " + strings.Join(chips, ""))
	b.WriteString("\n")

	selected := "nenhuma"
	if len(f.form.Tags) > 0 {
		selected = strings.Join(f.form.Tags, " · ")
	}
	b.WriteString(labelStyle.Render("Tags") + " " + selected)
	b.WriteString("\n")

	supporter := "não"
	if f.form.IsSupporter {
		supporter = "sim ★"
	}
	b.WriteString(labelStyle.Render("Apoiador") + " " + supporter)
	b.WriteString(formFooter(f.form.Saving, f.form.Err, "Tab → próximo campo    Ctrl+A → apoiador    Ctrl+S → salvar    Esc → cancelar"))
	return boxStyle.Render(b.String())
}

// demandForm desenha forms.DemandForm. Toda demanda criada aqui nasce "nova".
type demandForm struct {
	form    *forms.DemandForm
	fields  *fieldSet
	creator forms.DemandCreator
}

func newDemandForm(creator forms.DemandCreator) *demandForm {
	return &demandForm{
		form:    forms.NewDemandForm(),
		creator: creator,
		fields: newFieldSet(
			newField("titulo", "Título*", "Resumo da solicitação", 200),
			newField("descricao", "Descrição*", "", 5000),
			newField("nome", "Cidadão*", "Nome do solicitante", 120),
			newField("telefone", "Telefone*", "(12) 99999-0000", 30),
			newField("email", "Email", "", 200),
			newField("bairro", "Bairro*", "", 80),
			newField("endereco", "Endereço", "", 300),
		),
	}
}

func (f *demandForm) apply(key, value string) {
	switch key {
	case "titulo":
		f.form.Title = value
	case "descricao":
		f.form.Description = value
	case "nome":
		f.form.CitizenName = value
	case "telefone":
		f.form.CitizenPhone = value
	case "email":
		f.form.CitizenEmail = value
	case "bairro":
		f.form.Neighborhood = value
	case "endereco":
		f.form.Address = value
	}
}

func (f *demandForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formSubmittedMsg:
		f.form.FinishSubmit(msg.err)
		if msg.err != nil {
			return nil
		}
		return closeForm(true, msg.notice)

	case tea.KeyMsg:
		if cmd, ok := navigate(f.fields, msg); ok {
			return cmd
		}
		switch msg.String() {
		case "esc":
			return closeForm(false, "")
		case "ctrl+t":
			f.form.Type = models.DemandType(cycle(string(f.form.Type), demandTypeOptions()[1:]))
			return nil
		case "ctrl+s":
			in, err := f.form.BeginSubmit()
			if err != nil {
				return nil
			}
			return submit(func(ctx context.Context) (string, error) {
				demand, err := f.creator.CreateDemand(ctx, in)
				if err != nil {
					return "", err
				}
				return "Demanda criada: protocolo " + demand.Protocol, nil
			})
		}
	}

	changed, cmd := f.fields.update(msg)
	if changed {
		key := f.fields.focused()
		f.apply(key, f.fields.value(key))
	}
	return cmd
}

func (f *demandForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Nova demanda"))
	b.WriteString("\n")
	b.WriteString(f.fields.view())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Tipo") + " " + f.form.Type.Label())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Status") + " " + f.form.Status().Label())
	b.WriteString(formFooter(f.form.Saving, f.form.Err, "Tab → próximo campo    Ctrl+T → tipo    Ctrl+S → salvar    Esc → cancelar"))
	return boxStyle.Render(b.String())
}
