// Package tablestore é o cliente genérico de consulta a tabelas usado pela camada de
// acesso a dados. Cada backend (MongoDB, Postgres, PostgREST/Supabase e memória)
// traduz o mesmo Query para o seu dialeto.
package tablestore

import (
	"context"
	"errors"
	"fmt"
)

// Tabelas do esquema hospedado
const (
	TableDemands  = "demandas"
	TableContacts = "contatos"
	TableNews     = "noticias"
	TableMessages = "mensagens_contato"
	TableSettings = "configuracoes"
)

// ColumnCreatedAt é a coluna usada em toda ordenação de listagem.
const ColumnCreatedAt = "created_at"

var (
	ErrNotFound = errors.New("registro não encontrado")
)

// Store é implementado por todos os backends.
//
// dest em Find é um ponteiro para slice; em FindOne, Insert e Update é um ponteiro
// para o registro. Colunas usam os nomes do esquema (tags json dos modelos).
type Store interface {
	Find(ctx context.Context, table string, q Query, dest any) error
	FindOne(ctx context.Context, table string, q Query, dest any) error
	Insert(ctx context.Context, table string, doc any, dest any) error
	Update(ctx context.Context, table string, q Query, patch map[string]any, dest any) error
	Delete(ctx context.Context, table string, q Query) error

	// CountBy devolve contagens agrupadas pelo valor de uma coluna escalar.
	CountBy(ctx context.Context, table, column string, q Query) (map[string]int64, error)
	// CountElements conta cada elemento de uma coluna do tipo array.
	CountElements(ctx context.Context, table, column string, q Query) (map[string]int64, error)
	// Increment soma delta a uma coluna numérica das linhas selecionadas.
	Increment(ctx context.Context, table, column string, q Query, delta int64) error

	Close(ctx context.Context) error
}

type FilterKind int

const (
	FilterEq FilterKind = iota
	FilterILikeAny
	FilterOverlaps
)

// Filter é um predicado. Todos os filtros de um Query são combinados com AND;
// ILikeAny combina suas colunas com OR.
type Filter struct {
	Kind    FilterKind
	Column  string
	Columns []string
	Value   any
	Values  []string
}

func Eq(column string, value any) Filter {
	return Filter{Kind: FilterEq, Column: column, Value: value}
}

// ILikeAny casa substring sem diferenciar maiúsculas em qualquer uma das colunas.
func ILikeAny(term string, columns ...string) Filter {
	return Filter{Kind: FilterILikeAny, Columns: columns, Value: term}
}

// Overlaps casa quando a coluna array tem pelo menos um dos valores.
func Overlaps(column string, values ...string) Filter {
	return Filter{Kind: FilterOverlaps, Column: column, Values: values}
}

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// NewQuery devolve a consulta padrão das listagens: mais recentes primeiro.
func NewQuery(filters ...Filter) Query {
	return Query{Filters: filters, OrderBy: ColumnCreatedAt, Desc: true}
}

// ByID seleciona uma única linha pela chave primária.
func ByID(id string) Query {
	return Query{Filters: []Filter{Eq("id", id)}}
}

func (q Query) Where(f Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), f)
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// ConstraintKind classifica violações de restrição do armazenamento.
type ConstraintKind int

const (
	UniqueViolation ConstraintKind = iota + 1
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
)

func (k ConstraintKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique"
	case ForeignKeyViolation:
		return "foreign_key"
	case NotNullViolation:
		return "not_null"
	case CheckViolation:
		return "check"
	}
	return "unknown"
}

// ConstraintError é a forma tipada com que todo backend reporta uma
// violação de restrição, para que o chamador não dependa do texto do erro.
type ConstraintError struct {
	Kind       ConstraintKind
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: violação de restrição %s (%s): %v", e.Table, e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: violação de restrição %s: %v", e.Table, e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation informa se err contém uma violação de unicidade.
func IsUniqueViolation(err error) bool {
	var cerr *ConstraintError
	return errors.As(err, &cerr) && cerr.Kind == UniqueViolation
}

// sqlStateKind mapeia os SQLSTATE de integridade do Postgres.
// Usado pelos backends postgres e postgrest.
func sqlStateKind(code string) (ConstraintKind, bool) {
	switch code {
	case "23505":
		return UniqueViolation, true
	case "23503":
		return ForeignKeyViolation, true
	case "23502":
		return NotNullViolation, true
	case "23514":
		return CheckViolation, true
	}
	return 0, false
}
