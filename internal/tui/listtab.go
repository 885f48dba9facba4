package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gabinete-digital/internal/listview"
)

const fetchTimeout = 10 * time.Second

// tab é uma aba do painel administrativo.
type tab interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Capturing indica que a aba está recebendo texto e as teclas globais
	// não devem ser interpretadas.
	Capturing() bool
	// Reload repete a consulta confirmada.
	Reload() tea.Cmd
	Stop()
}

// filterKey liga uma tecla a uma edição imediata do filtro.
type filterKey[Q any] struct {
	key   string
	label string
	apply func(Q) Q
	show  func(Q) string
}

// committedMsg chega quando o controller confirma um novo estado.
type committedMsg[Q any] struct {
	tab   string
	query Q
}

type rowsLoadedMsg[T any] struct {
	tab  string
	seq  int
	rows []T
	err  error
}

// listTab é uma listagem com busca, filtros e tabela. O estado da consulta é
// o do listview.Controller; cada confirmação gera uma nova busca na API e só
// a resposta mais recente é aplicada.
type listTab[Q listview.Query[Q], T any] struct {
	title      string
	ctrl       *listview.Controller[Q]
	commits    chan Q
	done       chan struct{}
	stopOnce   sync.Once
	searchable bool
	search     textinput.Model
	searching  bool
	filters    []filterKey[Q]
	fetch      func(context.Context, url.Values) ([]T, error)
	row        func(T) table.Row
	table      table.Model
	items      []T
	seq        int
	loading    bool
	err        string
}

func newListTab[Q listview.Query[Q], T any](
	title string,
	initial Q,
	delay time.Duration,
	columns []table.Column,
	fetch func(context.Context, url.Values) ([]T, error),
	row func(T) table.Row,
	filters ...filterKey[Q],
) *listTab[Q, T] {
	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "Buscar..."

	t := &listTab[Q, T]{
		title:      title,
		commits:    make(chan Q, 1),
		done:       make(chan struct{}),
		searchable: true,
		search:     search,
		filters:    filters,
		fetch:      fetch,
		row:        row,
		table: table.New(
			table.WithColumns(columns),
			table.WithFocused(true),
			table.WithHeight(12),
		),
	}
	t.ctrl = listview.NewController(initial, delay, t.push)
	return t
}

// push guarda só o estado mais recente; o anterior ainda não lido é descartado.
func (t *listTab[Q, T]) push(q Q) {
	for {
		select {
		case t.commits <- q:
			return
		default:
		}
		select {
		case <-t.commits:
		default:
		}
	}
}

func (t *listTab[Q, T]) waitForCommit() tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-t.commits:
			return committedMsg[Q]{tab: t.title, query: q}
		case <-t.done:
			return nil
		}
	}
}

func (t *listTab[Q, T]) load(values url.Values) tea.Cmd {
	t.seq++
	t.loading = true
	seq := t.seq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rows, err := t.fetch(ctx, values)
		return rowsLoadedMsg[T]{tab: t.title, seq: seq, rows: rows, err: err}
	}
}

func (t *listTab[Q, T]) Title() string {
	return t.title
}

func (t *listTab[Q, T]) Init() tea.Cmd {
	return tea.Batch(t.load(t.ctrl.Values()), t.waitForCommit())
}

func (t *listTab[Q, T]) Reload() tea.Cmd {
	return t.load(t.ctrl.Values())
}

func (t *listTab[Q, T]) Capturing() bool {
	return t.searching
}

func (t *listTab[Q, T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case committedMsg[Q]:
		if msg.tab != t.title {
			return nil
		}
		return tea.Batch(t.load(msg.query.Encode()), t.waitForCommit())

	case rowsLoadedMsg[T]:
		if msg.tab != t.title || msg.seq != t.seq {
			return nil
		}
		t.loading = false
		if msg.err != nil {
			t.err = msg.err.Error()
			return nil
		}
		t.err = ""
		t.items = msg.rows
		rows := make([]table.Row, 0, len(msg.rows))
		for _, item := range msg.rows {
			rows = append(rows, t.row(item))
		}
		t.table.SetRows(rows)
		return nil

	case tea.KeyMsg:
		if t.searching {
			return t.updateSearch(msg)
		}
		key := msg.String()
		if key == "/" && t.searchable {
			t.searching = true
			t.table.Blur()
			return t.search.Focus()
		}
		for _, f := range t.filters {
			if f.key == key {
				t.ctrl.Apply(f.apply)
				return nil
			}
		}
	}

	var cmd tea.Cmd
	t.table, cmd = t.table.Update(msg)
	return cmd
}

func (t *listTab[Q, T]) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "tab":
		t.searching = false
		t.search.Blur()
		t.table.Focus()
		return nil
	}

	before := t.search.Value()
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	if value := t.search.Value(); value != before {
		t.ctrl.Search(value)
	}
	return cmd
}

// Selected devolve o item sob o cursor.
func (t *listTab[Q, T]) Selected() (T, bool) {
	var zero T
	i := t.table.Cursor()
	if i < 0 || i >= len(t.items) {
		return zero, false
	}
	return t.items[i], true
}

func (t *listTab[Q, T]) View(width, height int) string {
	t.table.SetWidth(max(20, width-4))
	t.table.SetHeight(max(3, height-8))

	var b strings.Builder
	if t.searchable {
		b.WriteString(t.search.View())
		b.WriteString("\n")
	}

	q := t.ctrl.Query()
	chips := make([]string, 0, len(t.filters))
	for _, f := range t.filters {
		chips = append(chips, chipStyle.Render(fmt.Sprintf("[%s] %s: %s", f.key, f.label, f.show(q))))
	}
	b.WriteString(strings.Join(chips, ""))
	b.WriteString("\n")

	switch {
	case t.err != "":
		b.WriteString(errorStyle.Render("Erro ao carregar: " + t.err))
		b.WriteString("\n")
	case t.loading && len(t.items) == 0:
		b.WriteString(hintStyle.Render("Carregando..."))
		b.WriteString("\n")
	case !t.loading && len(t.items) == 0:
		b.WriteString(hintStyle.Render("Nenhum registro encontrado."))
		b.WriteString("\n")
	}

	b.WriteString(t.table.View())
	return b.String()
}

func (t *listTab[Q, T]) Stop() {
	t.stopOnce.Do(func() {
		t.ctrl.Stop()
		close(t.done)
	})
}
