// Package listview guarda o estado das listagens do painel (busca e filtros) num
// objeto serializável para a query string da URL.
package listview

import (
	"net/url"
	"strings"

	"gabinete-digital/internal/models"
)

// All é o valor de filtro que significa "sem restrição". Nunca aparece na URL.
const All = "all"

const (
	ParamSearch    = "search"
	ParamStatus    = "status"
	ParamType      = "tipo"
	ParamCategory  = "categoria"
	ParamSupporter = "apoiador"
	ParamRead      = "lida"
	ParamAnswered  = "respondida"
)

// filterValue trata ausência, vazio e All da mesma forma.
func filterValue(v url.Values, key string) string {
	value := v.Get(key)
	if value == All {
		return ""
	}
	return value
}

func unsetAll(value string) string {
	if value == All {
		return ""
	}
	return value
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// DemandQuery é o estado da listagem de demandas.
type DemandQuery struct {
	Search string
	Status models.DemandStatus
	Type   models.DemandType
}

func ParseDemandQuery(v url.Values) DemandQuery {
	return DemandQuery{
		Search: v.Get(ParamSearch),
		Status: models.DemandStatus(filterValue(v, ParamStatus)),
		Type:   models.DemandType(filterValue(v, ParamType)),
	}
}

func (q DemandQuery) Encode() url.Values {
	v := url.Values{}
	setIf(v, ParamSearch, q.Search)
	setIf(v, ParamStatus, string(q.Status))
	setIf(v, ParamType, string(q.Type))
	return v
}

func (q DemandQuery) WithSearch(term string) DemandQuery {
	q.Search = term
	return q
}

func (q DemandQuery) WithStatus(status string) DemandQuery {
	q.Status = models.DemandStatus(unsetAll(status))
	return q
}

func (q DemandQuery) WithType(t string) DemandQuery {
	q.Type = models.DemandType(unsetAll(t))
	return q
}

func (q DemandQuery) Filters() models.DemandFilters {
	return models.DemandFilters{
		Status: q.Status,
		Type:   q.Type,
		Search: strings.TrimSpace(q.Search),
	}
}

// ContactQuery é o estado da listagem de contatos.
type ContactQuery struct {
	Search         string
	SupportersOnly bool
}

// ParseContactQuery: apenas apoiador=true liga o filtro.
func ParseContactQuery(v url.Values) ContactQuery {
	return ContactQuery{
		Search:         v.Get(ParamSearch),
		SupportersOnly: v.Get(ParamSupporter) == "true",
	}
}

func (q ContactQuery) Encode() url.Values {
	v := url.Values{}
	setIf(v, ParamSearch, q.Search)
	if q.SupportersOnly {
		v.Set(ParamSupporter, "true")
	}
	return v
}

func (q ContactQuery) WithSearch(term string) ContactQuery {
	q.Search = term
	return q
}

func (q ContactQuery) WithSupportersOnly(on bool) ContactQuery {
	q.SupportersOnly = on
	return q
}

func (q ContactQuery) Filters() models.ContactFilters {
	f := models.ContactFilters{Search: strings.TrimSpace(q.Search)}
	if q.SupportersOnly {
		on := true
		f.Supporter = &on
	}
	return f
}

// NewsQuery é o estado da listagem de notícias.
type NewsQuery struct {
	Search   string
	Status   models.NewsStatus
	Category string
}

func ParseNewsQuery(v url.Values) NewsQuery {
	return NewsQuery{
		Search:   v.Get(ParamSearch),
		Status:   models.NewsStatus(filterValue(v, ParamStatus)),
		Category: filterValue(v, ParamCategory),
	}
}

func (q NewsQuery) Encode() url.Values {
	v := url.Values{}
	setIf(v, ParamSearch, q.Search)
	setIf(v, ParamStatus, string(q.Status))
	setIf(v, ParamCategory, q.Category)
	return v
}

func (q NewsQuery) WithSearch(term string) NewsQuery {
	q.Search = term
	return q
}

func (q NewsQuery) WithStatus(status string) NewsQuery {
	q.Status = models.NewsStatus(unsetAll(status))
	return q
}

func (q NewsQuery) WithCategory(category string) NewsQuery {
	q.Category = unsetAll(category)
	return q
}

func (q NewsQuery) Filters() models.NewsFilters {
	return models.NewsFilters{
		Status:   q.Status,
		Category: q.Category,
		Search:   strings.TrimSpace(q.Search),
	}
}

// MessageQuery filtra a caixa de mensagens por lida/respondida.
type MessageQuery struct {
	Read     *bool
	Answered *bool
}

func parseBool(v url.Values, key string) *bool {
	switch v.Get(key) {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

func ParseMessageQuery(v url.Values) MessageQuery {
	return MessageQuery{
		Read:     parseBool(v, ParamRead),
		Answered: parseBool(v, ParamAnswered),
	}
}

func (q MessageQuery) Encode() url.Values {
	v := url.Values{}
	if q.Read != nil {
		v.Set(ParamRead, boolString(*q.Read))
	}
	if q.Answered != nil {
		v.Set(ParamAnswered, boolString(*q.Answered))
	}
	return v
}

// WithSearch mantém a consulta: a caixa de mensagens não tem busca textual.
func (q MessageQuery) WithSearch(string) MessageQuery {
	return q
}

// WithRead alterna entre todas, não lidas e lidas.
func (q MessageQuery) WithRead(read *bool) MessageQuery {
	q.Read = read
	return q
}

func (q MessageQuery) WithAnswered(answered *bool) MessageQuery {
	q.Answered = answered
	return q
}

func (q MessageQuery) Filters() models.MessageFilters {
	return models.MessageFilters{Read: q.Read, Answered: q.Answered}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
