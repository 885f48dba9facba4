// Package tui é a interface de terminal do gabinete: o painel administrativo
// com as listagens e cadastros, o assistente público de demandas e o
// formulário "Fale Conosco". Tudo fala com a API pelo internal/client.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gabinete-digital/internal/listview"
	"gabinete-digital/internal/models"
)

const (
	tabDemands = iota
	tabContacts
	tabNews
	tabMessages
)

type messageMarkedMsg struct {
	err error
}

// AdminOption ajusta o painel na construção.
type AdminOption func(*adminOptions)

type adminOptions struct {
	delay   time.Duration
	queries map[int]url.Values
	start   int
}

// WithSearchDelay troca o atraso da busca (testes usam zero).
func WithSearchDelay(d time.Duration) AdminOption {
	return func(o *adminOptions) { o.delay = d }
}

// WithQuery abre a aba nomeada ("demandas", "contatos", "noticias" ou
// "mensagens") com o estado de filtro da query string e a torna ativa.
func WithQuery(name string, values url.Values) AdminOption {
	return func(o *adminOptions) {
		i, ok := tabByName[name]
		if !ok {
			return
		}
		o.queries[i] = values
		o.start = i
	}
}

var tabByName = map[string]int{
	"demandas":  tabDemands,
	"contatos":  tabContacts,
	"noticias":  tabNews,
	"mensagens": tabMessages,
}

// Admin é o painel administrativo.
type Admin struct {
	backend  Backend
	user     string
	tabs     []tab
	messages *listTab[listview.MessageQuery, models.ContactMessage]
	active   int
	form     formScreen
	status   string
	width    int
	height   int
}

func NewAdmin(backend Backend, user string, opts ...AdminOption) *Admin {
	o := &adminOptions{delay: listview.SearchDelay, queries: map[int]url.Values{}}
	for _, opt := range opts {
		opt(o)
	}

	messages := newMessagesTab(backend, o.queries[tabMessages], o.delay)
	return &Admin{
		backend: backend,
		user:    user,
		tabs: []tab{
			newDemandsTab(backend, o.queries[tabDemands], o.delay),
			newContactsTab(backend, o.queries[tabContacts], o.delay),
			newNewsTab(backend, o.queries[tabNews], o.delay),
			messages,
		},
		messages: messages,
		active:   o.start,
		width:    100,
		height:   30,
	}
}

func (a *Admin) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.tabs))
	for _, t := range a.tabs {
		cmds = append(cmds, t.Init())
	}
	return tea.Batch(cmds...)
}

func (a *Admin) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case formClosedMsg:
		a.form = nil
		a.status = msg.notice
		if msg.saved {
			return a, a.tabs[a.active].Reload()
		}
		return a, nil

	case formSubmittedMsg:
		if a.form != nil {
			return a, a.form.Update(msg)
		}
		return a, nil

	case messageMarkedMsg:
		if msg.err != nil {
			a.status = "Erro ao marcar mensagem: " + msg.err.Error()
			return a, nil
		}
		a.status = "Mensagem marcada como lida."
		return a, a.messages.Reload()

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, a.quit()
		}
		if a.form != nil {
			return a, a.form.Update(msg)
		}
		current := a.tabs[a.active]
		if current.Capturing() {
			return a, current.Update(msg)
		}

		switch key {
		case "q":
			return a, a.quit()
		case "tab":
			a.active = (a.active + 1) % len(a.tabs)
			return a, nil
		case "shift+tab":
			a.active = (a.active - 1 + len(a.tabs)) % len(a.tabs)
			return a, nil
		case "1", "2", "3", "4":
			a.active = int(key[0] - '1')
			return a, nil
		case "R":
			a.status = ""
			return a, current.Reload()
		case "n":
			if a.openForm() {
				return a, nil
			}
		case "m":
			if a.active == tabMessages {
				return a, a.markSelectedRead()
			}
		}
		return a, current.Update(msg)
	}

	// Respostas de consulta e confirmações de filtro vão para todas as abas;
	// cada uma ignora o que não é dela.
	cmds := make([]tea.Cmd, 0, len(a.tabs))
	for _, t := range a.tabs {
		cmds = append(cmds, t.Update(msg))
	}
	return a, tea.Batch(cmds...)
}

func (a *Admin) openForm() bool {
	switch a.active {
	case tabDemands:
		a.form = newDemandForm(a.backend)
	case tabContacts:
		a.form = newContactForm(a.backend)
	case tabNews:
		a.form = newNewsForm(a.backend)
	default:
		return false
	}
	a.status = ""
	return true
}

func (a *Admin) markSelectedRead() tea.Cmd {
	msg, ok := a.messages.Selected()
	if !ok || msg.IsRead {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		_, err := a.backend.MarkMessageRead(ctx, msg.ID)
		return messageMarkedMsg{err: err}
	}
}

func (a *Admin) quit() tea.Cmd {
	a.Stop()
	return tea.Quit
}

// Stop descarta buscas pendentes de todas as abas.
func (a *Admin) Stop() {
	for _, t := range a.tabs {
		t.Stop()
	}
}

func (a *Admin) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.UnsetMarginBottom().Render("🏛️  Gabinete Digital"),
		tabStyle.Render("· "+a.user),
	)

	names := make([]string, 0, len(a.tabs))
	for i, t := range a.tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Title())
		if i == a.active {
			names = append(names, activeTabStyle.Render(label))
		} else {
			names = append(names, tabStyle.Render(label))
		}
	}

	var body string
	if a.form != nil {
		body = a.form.View()
	} else {
		body = a.tabs[a.active].View(a.width, a.height)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Join(names, " "))
	b.WriteString("\n\n")
	b.WriteString(body)
	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(okStyle.Render(a.status))
	}
	if a.form == nil {
		b.WriteString(hintStyle.Render(a.hints()))
	}
	return b.String()
}

func (a *Admin) hints() string {
	parts := []string{"Tab → aba", "/ → buscar"}
	switch a.active {
	case tabMessages:
		parts = []string{"Tab → aba", "M → marcar como lida"}
	default:
		parts = append(parts, "N → novo")
	}
	return strings.Join(append(parts, "Shift+R → recarregar", "Q → sair"), "    ")
}
