package tablestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Postgres implementa Store diretamente sobre o banco relacional. As linhas são
// serializadas pelo próprio banco (row_to_json / json_agg) e decodificadas pelas
// tags json dos modelos.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Find(ctx context.Context, table string, q Query, dest any) error {
	inner, args := selectSQL(table, q)
	query := "SELECT coalesce(json_agg(t), '[]'::json) FROM (" + inner + ") t"

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return postgresError(table, err)
	}
	return json.Unmarshal(raw, dest)
}

func (s *Postgres) FindOne(ctx context.Context, table string, q Query, dest any) error {
	q.Limit = 1
	inner, args := selectSQL(table, q)
	query := "SELECT row_to_json(t) FROM (" + inner + ") t"

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return postgresError(table, err)
	}
	return json.Unmarshal(raw, dest)
}

func (s *Postgres) Insert(ctx context.Context, table string, doc any, dest any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: codificando registro: %w", table, err)
	}

	ident := pq.QuoteIdentifier(table)
	query := "INSERT INTO " + ident + " AS t SELECT * FROM json_populate_record(NULL::" + ident + ", $1) RETURNING row_to_json(t)"

	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, string(payload)).Scan(&raw); err != nil {
		return postgresError(table, err)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (s *Postgres) Update(ctx context.Context, table string, q Query, patch map[string]any, dest any) error {
	query, args := updateSQL(table, q, patch)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return postgresError(table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return postgresError(table, err)
		}
		return ErrNotFound
	}

	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return postgresError(table, err)
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func (s *Postgres) Delete(ctx context.Context, table string, q Query) error {
	where, args := whereSQL(q.Filters, 1)
	query := "DELETE FROM " + pq.QuoteIdentifier(table) + where

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return postgresError(table, err)
	}
	return nil
}

func (s *Postgres) CountBy(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	where, args := whereSQL(q.Filters, 1)
	col := pq.QuoteIdentifier(column)
	query := "SELECT " + col + "::text, count(*) FROM " + pq.QuoteIdentifier(table) + where + " GROUP BY 1"
	return s.scanCounts(ctx, table, query, args)
}

func (s *Postgres) CountElements(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	where, args := whereSQL(q.Filters, 1)
	query := "SELECT e, count(*) FROM " + pq.QuoteIdentifier(table) +
		" CROSS JOIN LATERAL unnest(" + pq.QuoteIdentifier(column) + ") AS e" + where + " GROUP BY e"
	return s.scanCounts(ctx, table, query, args)
}

func (s *Postgres) scanCounts(ctx context.Context, table, query string, args []any) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, postgresError(table, err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var key sql.NullString
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, postgresError(table, err)
		}
		counts[key.String] += n
	}
	return counts, rows.Err()
}

func (s *Postgres) Increment(ctx context.Context, table, column string, q Query, delta int64) error {
	where, args := whereSQL(q.Filters, 2)
	col := pq.QuoteIdentifier(column)
	query := "UPDATE " + pq.QuoteIdentifier(table) + " SET " + col + " = coalesce(" + col + ", 0) + $1" + where

	result, err := s.db.ExecContext(ctx, query, append([]any{delta}, args...)...)
	if err != nil {
		return postgresError(table, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) Close(context.Context) error {
	return s.db.Close()
}

func selectSQL(table string, q Query) (string, []any) {
	where, args := whereSQL(q.Filters, 1)

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(pq.QuoteIdentifier(table))
	b.WriteString(where)
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(pq.QuoteIdentifier(q.OrderBy))
		if q.Desc {
			b.WriteString(" DESC")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), args
}

func updateSQL(table string, q Query, patch map[string]any) (string, []any) {
	columns := make([]string, 0, len(patch))
	for column := range patch {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, column := range columns {
		if jsonColumns[column] {
			sets = append(sets, fmt.Sprintf("%s = $%d::jsonb", pq.QuoteIdentifier(column), i+1))
			args = append(args, jsonValue(patch[column]))
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(column), i+1))
		args = append(args, sqlValue(patch[column]))
	}

	where, whereArgs := whereSQL(q.Filters, len(args)+1)
	query := "UPDATE " + pq.QuoteIdentifier(table) + " AS t SET " + strings.Join(sets, ", ") + where + " RETURNING row_to_json(t)"
	return query, append(args, whereArgs...)
}

// whereSQL monta a cláusula WHERE com parâmetros numerados a partir de start.
func whereSQL(filters []Filter, start int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	n := start
	for _, f := range filters {
		switch f.Kind {
		case FilterEq:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(f.Column), n))
			args = append(args, sqlValue(f.Value))
		case FilterILikeAny:
			or := make([]string, 0, len(f.Columns))
			for _, column := range f.Columns {
				or = append(or, fmt.Sprintf("%s ILIKE $%d", pq.QuoteIdentifier(column), n))
			}
			clauses = append(clauses, "("+strings.Join(or, " OR ")+")")
			args = append(args, "%"+escapeLike(fmt.Sprint(f.Value))+"%")
		case FilterOverlaps:
			clauses = append(clauses, fmt.Sprintf("%s && $%d", pq.QuoteIdentifier(f.Column), n))
			args = append(args, pq.Array(f.Values))
		default:
			continue
		}
		n++
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// jsonColumns são colunas jsonb que aceitam qualquer valor, inclusive
// texto puro, e por isso sempre recebem o documento codificado.
var jsonColumns = map[string]bool{"valor": true}

func jsonValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(raw)
}

func sqlValue(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64, time.Time, *time.Time, *string, *float64, *bool:
		return val
	case []string:
		return pq.Array(val)
	case *[]string:
		if val == nil {
			return nil
		}
		return pq.Array(*val)
	case fmt.Stringer:
		return val.String()
	}

	// Tipos nomeados (ex.: models.DemandStatus) são aceitos pelo driver;
	// mapas e listas genéricas viram json.
	switch v.(type) {
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(raw)
	}
	return v
}

func postgresError(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if kind, ok := sqlStateKind(string(pqErr.Code)); ok {
			return &ConstraintError{Kind: kind, Table: table, Constraint: pqErr.Constraint, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", table, err)
}
