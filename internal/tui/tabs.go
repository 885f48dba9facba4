package tui

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"gabinete-digital/internal/listview"
	"gabinete-digital/internal/models"
)

// Backend é o que o painel consome da API.
type Backend interface {
	ListDemands(ctx context.Context, query url.Values) ([]models.Demand, error)
	ListContacts(ctx context.Context, query url.Values) ([]models.Contact, error)
	ListNews(ctx context.Context, query url.Values) ([]models.NewsArticle, error)
	ListMessages(ctx context.Context, query url.Values) ([]models.ContactMessage, error)
	CreateDemand(ctx context.Context, in models.CreateDemandInput) (*models.Demand, error)
	CreateContact(ctx context.Context, in models.CreateContactInput) (*models.Contact, error)
	CreateNews(ctx context.Context, in models.CreateNewsInput) (*models.NewsArticle, error)
	MarkMessageRead(ctx context.Context, id string) (*models.ContactMessage, error)
}

const dateLayout = "02/01/2006"

func orAll(s string) string {
	if s == "" {
		return "todos"
	}
	return s
}

func boolLabel(b *bool, yes, no string) string {
	switch {
	case b == nil:
		return "todas"
	case *b:
		return yes
	default:
		return no
	}
}

// nextTriState percorre todas → não → sim.
func nextTriState(b *bool) *bool {
	switch {
	case b == nil:
		v := false
		return &v
	case !*b:
		v := true
		return &v
	default:
		return nil
	}
}

func demandStatusOptions() []string {
	opts := []string{""}
	for _, s := range models.DemandStatuses {
		opts = append(opts, string(s))
	}
	return opts
}

func demandTypeOptions() []string {
	opts := []string{""}
	for _, t := range models.DemandTypes {
		opts = append(opts, string(t.ID))
	}
	return opts
}

func newsStatusOptions() []string {
	opts := []string{""}
	for _, s := range models.NewsStatuses {
		opts = append(opts, string(s))
	}
	return opts
}

func newDemandsTab(b Backend, initial url.Values, delay time.Duration) *listTab[listview.DemandQuery, models.Demand] {
	return newListTab(
		"Demandas",
		listview.ParseDemandQuery(initial),
		delay,
		[]table.Column{
			{Title: "Protocolo", Width: 15},
			{Title: "Título", Width: 30},
			{Title: "Tipo", Width: 18},
			{Title: "Status", Width: 24},
			{Title: "Bairro", Width: 16},
			{Title: "Data", Width: 10},
		},
		b.ListDemands,
		func(d models.Demand) table.Row {
			return table.Row{
				d.Protocol,
				d.Title,
				d.Type.Label(),
				d.Status.Label(),
				d.Neighborhood,
				d.CreatedAt.Format(dateLayout),
			}
		},
		filterKey[listview.DemandQuery]{
			key:   "s",
			label: "status",
			apply: func(q listview.DemandQuery) listview.DemandQuery {
				return q.WithStatus(cycle(string(q.Status), demandStatusOptions()))
			},
			show: func(q listview.DemandQuery) string { return orAll(string(q.Status)) },
		},
		filterKey[listview.DemandQuery]{
			key:   "t",
			label: "tipo",
			apply: func(q listview.DemandQuery) listview.DemandQuery {
				return q.WithType(cycle(string(q.Type), demandTypeOptions()))
			},
			show: func(q listview.DemandQuery) string { return orAll(string(q.Type)) },
		},
	)
}

func newContactsTab(b Backend, initial url.Values, delay time.Duration) *listTab[listview.ContactQuery, models.Contact] {
	return newListTab(
		"Contatos",
		listview.ParseContactQuery(initial),
		delay,
		[]table.Column{
			{Title: "Nome", Width: 26},
			{Title: "Telefone", Width: 16},
			{Title: "Bairro", Width: 16},
			{Title: "Apoiador", Width: 9},
			{Title: "Tags", Width: 34},
		},
		b.ListContacts,
		func(c models.Contact) table.Row {
			supporter := ""
			if c.IsSupporter {
				supporter = "★"
			}
			return table.Row{c.Name, c.Phone, c.Neighborhood, supporter, strings.Join(c.Tags, ", ")}
		},
		filterKey[listview.ContactQuery]{
			key:   "a",
			label: "apoiadores",
			apply: func(q listview.ContactQuery) listview.ContactQuery {
				return q.WithSupportersOnly(!q.SupportersOnly)
			},
			show: func(q listview.ContactQuery) string {
				if q.SupportersOnly {
					return "só apoiadores"
				}
				return "todos"
			},
		},
	)
}

func newNewsTab(b Backend, initial url.Values, delay time.Duration) *listTab[listview.NewsQuery, models.NewsArticle] {
	categories := append([]string{""}, models.NewsCategories...)
	return newListTab(
		"Notícias",
		listview.ParseNewsQuery(initial),
		delay,
		[]table.Column{
			{Title: "Título", Width: 34},
			{Title: "Categoria", Width: 16},
			{Title: "Status", Width: 22},
			{Title: "Visualizações", Width: 13},
			{Title: "Data", Width: 10},
		},
		b.ListNews,
		func(n models.NewsArticle) table.Row {
			return table.Row{
				n.Title,
				n.Category,
				n.Status.Label(),
				strconv.FormatInt(n.Views, 10),
				n.CreatedAt.Format(dateLayout),
			}
		},
		filterKey[listview.NewsQuery]{
			key:   "s",
			label: "status",
			apply: func(q listview.NewsQuery) listview.NewsQuery {
				return q.WithStatus(cycle(string(q.Status), newsStatusOptions()))
			},
			show: func(q listview.NewsQuery) string { return orAll(string(q.Status)) },
		},
		filterKey[listview.NewsQuery]{
			key:   "c",
			label: "categoria",
			apply: func(q listview.NewsQuery) listview.NewsQuery {
				return q.WithCategory(cycle(q.Category, categories))
			},
			show: func(q listview.NewsQuery) string { return orAll(q.Category) },
		},
	)
}

func newMessagesTab(b Backend, initial url.Values, delay time.Duration) *listTab[listview.MessageQuery, models.ContactMessage] {
	t := newListTab(
		"Mensagens",
		listview.ParseMessageQuery(initial),
		delay,
		[]table.Column{
			{Title: "", Width: 2},
			{Title: "Nome", Width: 22},
			{Title: "Email", Width: 26},
			{Title: "Assunto", Width: 30},
			{Title: "Data", Width: 10},
		},
		b.ListMessages,
		func(m models.ContactMessage) table.Row {
			mark := "●"
			if m.IsRead {
				mark = ""
			}
			if m.IsAnswered {
				mark = "✓"
			}
			return table.Row{mark, m.Name, m.Email, m.Subject, m.CreatedAt.Format(dateLayout)}
		},
		filterKey[listview.MessageQuery]{
			key:   "l",
			label: "lidas",
			apply: func(q listview.MessageQuery) listview.MessageQuery {
				return q.WithRead(nextTriState(q.Read))
			},
			show: func(q listview.MessageQuery) string { return boolLabel(q.Read, "lidas", "não lidas") },
		},
		filterKey[listview.MessageQuery]{
			key:   "r",
			label: "respondidas",
			apply: func(q listview.MessageQuery) listview.MessageQuery {
				return q.WithAnswered(nextTriState(q.Answered))
			},
			show: func(q listview.MessageQuery) string { return boolLabel(q.Answered, "respondidas", "pendentes") },
		},
	)
	t.searchable = false
	return t
}
