package tablestore

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestSelectSQL(t *testing.T) {
	q := NewQuery(
		Eq("status", "nova"),
		ILikeAny("50%_off", "titulo", "resumo"),
		Overlaps("tags", "Saúde"),
	).WithLimit(10)

	query, args := selectSQL("noticias", q)

	assert.Equal(t,
		`SELECT * FROM "noticias" WHERE "status" = $1 AND ("titulo" ILIKE $2 OR "resumo" ILIKE $2) AND "tags" && $3 ORDER BY "created_at" DESC LIMIT 10`,
		query)
	assert.Len(t, args, 3)
	assert.Equal(t, "nova", args[0])
	assert.Equal(t, `%50\%\_off%`, args[1])
	assert.IsType(t, pq.Array([]string{}), args[2])
}

func TestSelectSQL_NoFilters(t *testing.T) {
	query, args := selectSQL("contatos", Query{})
	assert.Equal(t, `SELECT * FROM "contatos"`, query)
	assert.Empty(t, args)
}

func TestUpdateSQL_SortsColumnsAndNumbersWhere(t *testing.T) {
	query, args := updateSQL("demandas", ByID("abc"), map[string]any{
		"titulo": "Novo",
		"status": "resolvida",
	})

	assert.Equal(t,
		`UPDATE "demandas" AS t SET "status" = $1, "titulo" = $2 WHERE "id" = $3 RETURNING row_to_json(t)`,
		query)
	assert.Equal(t, []any{"resolvida", "Novo", "abc"}, args)
}

func TestUpdateSQL_JSONColumnAlwaysEncoded(t *testing.T) {
	query, args := updateSQL("configuracoes", NewQuery(Eq("chave", "tema")), map[string]any{
		"valor": "claro",
	})

	assert.Equal(t,
		`UPDATE "configuracoes" AS t SET "valor" = $1::jsonb WHERE "chave" = $2 RETURNING row_to_json(t)`,
		query)
	assert.Equal(t, []any{`"claro"`, "tema"}, args)
}

func TestSQLValue(t *testing.T) {
	assert.IsType(t, pq.Array([]string{}), sqlValue([]string{"a"}))
	assert.Equal(t, `{"tema":"claro"}`, sqlValue(map[string]any{"tema": "claro"}))
	assert.Nil(t, sqlValue(nil))
}

func TestPostgresErrorClassification(t *testing.T) {
	err := postgresError("noticias", &pq.Error{Code: "23505", Constraint: "noticias_slug_key"})

	assert.True(t, IsUniqueViolation(err))
	cerr, ok := err.(*ConstraintError)
	if assert.True(t, ok) {
		assert.Equal(t, "noticias_slug_key", cerr.Constraint)
	}

	other := postgresError("noticias", &pq.Error{Code: "42P01"})
	assert.False(t, IsUniqueViolation(other))
}
