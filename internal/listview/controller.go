package listview

import (
	"net/url"
	"sync"
	"time"
)

// SearchDelay é a espera após a última tecla antes de aplicar a busca.
const SearchDelay = 300 * time.Millisecond

// Query é o contrato dos objetos de estado das listagens.
type Query[Q any] interface {
	Encode() url.Values
	WithSearch(term string) Q
}

// Controller guarda o estado confirmado de uma listagem. Edições de busca são
// confirmadas após o atraso; as demais, imediatamente. Cada confirmação chama
// commit, que deve disparar a nova consulta.
type Controller[Q Query[Q]] struct {
	mu        sync.Mutex
	query     Q
	debouncer *Debouncer
	commit    func(Q)
}

func NewController[Q Query[Q]](initial Q, delay time.Duration, commit func(Q)) *Controller[Q] {
	return &Controller[Q]{
		query:     initial,
		debouncer: NewDebouncer(delay),
		commit:    commit,
	}
}

// Query devolve o último estado confirmado.
func (c *Controller[Q]) Query() Q {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Values devolve o estado confirmado como query string.
func (c *Controller[Q]) Values() url.Values {
	return c.Query().Encode()
}

// Search agenda a busca; chamadas dentro do atraso substituem a anterior.
func (c *Controller[Q]) Search(term string) {
	c.debouncer.Trigger(func() {
		c.Apply(func(q Q) Q { return q.WithSearch(term) })
	})
}

// Apply confirma uma edição de filtro imediatamente.
func (c *Controller[Q]) Apply(edit func(Q) Q) {
	c.mu.Lock()
	c.query = edit(c.query)
	q := c.query
	c.mu.Unlock()

	if c.commit != nil {
		c.commit(q)
	}
}

// Stop descarta uma busca pendente.
func (c *Controller[Q]) Stop() {
	c.debouncer.Stop()
}
