package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// PostgREST implementa Store sobre a API REST do Supabase (PostgREST).
// Não há retentativas: uma falha de rede é devolvida imediatamente.
type PostgREST struct {
	client *resty.Client
}

// postgrestError é o corpo de erro padrão do PostgREST.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *postgrestError) Error() string {
	if e.Details != "" {
		return e.Message + " (" + e.Details + ")"
	}
	return e.Message
}

var postgrestConstraint = regexp.MustCompile(`constraint "([^"]+)"`)

// NewPostgREST cria o cliente. baseURL é a URL do projeto (ex.: https://xyz.supabase.co);
// apiKey é enviada como apikey e como bearer token.
func NewPostgREST(baseURL, apiKey string) *PostgREST {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		client.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}

	return &PostgREST{client: client}
}

func (s *PostgREST) Find(ctx context.Context, table string, q Query, dest any) error {
	params := PostgRESTParams(q)
	params.Set("select", "*")

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetError(&postgrestError{}).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return restError(table, resp)
	}
	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("%s: decodificando: %w", table, err)
	}
	ensureSlice(dest)
	return nil
}

func (s *PostgREST) FindOne(ctx context.Context, table string, q Query, dest any) error {
	var rows []json.RawMessage
	if err := s.Find(ctx, table, q.WithLimit(1), &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return json.Unmarshal(rows[0], dest)
}

func (s *PostgREST) Insert(ctx context.Context, table string, doc any, dest any) error {
	var rows []json.RawMessage
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(doc).
		SetResult(&rows).
		SetError(&postgrestError{}).
		Post("/" + table)
	if err != nil {
		return fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return restError(table, resp)
	}
	if dest == nil || len(rows) == 0 {
		return nil
	}
	return json.Unmarshal(rows[0], dest)
}

func (s *PostgREST) Update(ctx context.Context, table string, q Query, patch map[string]any, dest any) error {
	var rows []json.RawMessage
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParamsFromValues(PostgRESTParams(Query{Filters: q.Filters})).
		SetBody(patch).
		SetResult(&rows).
		SetError(&postgrestError{}).
		Patch("/" + table)
	if err != nil {
		return fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return restError(table, resp)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(rows[0], dest)
}

func (s *PostgREST) Delete(ctx context.Context, table string, q Query) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(PostgRESTParams(Query{Filters: q.Filters})).
		SetError(&postgrestError{}).
		Delete("/" + table)
	if err != nil {
		return fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return restError(table, resp)
	}
	return nil
}

// CountBy usa as funções de agregação do PostgREST 12 (select=col,count()).
func (s *PostgREST) CountBy(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	params := PostgRESTParams(Query{Filters: q.Filters})
	params.Set("select", column+",count()")

	var groups []map[string]any
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&groups).
		SetError(&postgrestError{}).
		Get("/" + table)
	if err != nil {
		return nil, fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return nil, restError(table, resp)
	}

	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		n, _ := g["count"].(float64)
		counts[groupKey(g[column])] += int64(n)
	}
	return counts, nil
}

// CountElements lê apenas a coluna array e conta localmente: o PostgREST não
// expõe unnest em consultas comuns.
func (s *PostgREST) CountElements(ctx context.Context, table, column string, q Query) (map[string]int64, error) {
	params := PostgRESTParams(Query{Filters: q.Filters})
	params.Set("select", column)

	var rows []map[string][]string
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&rows).
		SetError(&postgrestError{}).
		Get("/" + table)
	if err != nil {
		return nil, fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return nil, restError(table, resp)
	}

	counts := map[string]int64{}
	for _, row := range rows {
		for _, item := range row[column] {
			counts[item]++
		}
	}
	return counts, nil
}

// Increment lê o valor atual e grava o novo. Sem função RPC no banco, duas
// leituras simultâneas podem perder um incremento.
func (s *PostgREST) Increment(ctx context.Context, table, column string, q Query, delta int64) error {
	params := PostgRESTParams(Query{Filters: q.Filters})
	params.Set("select", "id,"+column)

	var rows []map[string]any
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&rows).
		SetError(&postgrestError{}).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("%s: requisição: %w", table, err)
	}
	if resp.IsError() {
		return restError(table, resp)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}

	for _, row := range rows {
		current, _ := row[column].(float64)
		patch := map[string]any{column: int64(current) + delta}
		if err := s.Update(ctx, table, ByID(fmt.Sprint(row["id"])), patch, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgREST) Close(context.Context) error {
	return nil
}

// PostgRESTParams traduz a consulta para parâmetros de URL do PostgREST.
func PostgRESTParams(q Query) url.Values {
	params := url.Values{}
	var ors []string

	for _, f := range q.Filters {
		switch f.Kind {
		case FilterEq:
			params.Add(f.Column, "eq."+restLiteral(f.Value))
		case FilterILikeAny:
			// O PostgREST troca todo * por %, então o asterisco digitado
			// é descartado; % e _ são escapados como no backend Postgres.
			term := strings.ReplaceAll(fmt.Sprint(f.Value), "*", "")
			pattern := restQuote("*" + escapeLike(term) + "*")
			parts := make([]string, 0, len(f.Columns))
			for _, column := range f.Columns {
				parts = append(parts, column+".ilike."+pattern)
			}
			ors = append(ors, strings.Join(parts, ","))
		case FilterOverlaps:
			items := make([]string, 0, len(f.Values))
			for _, v := range f.Values {
				items = append(items, restQuote(v))
			}
			params.Add(f.Column, "ov.{"+strings.Join(items, ",")+"}")
		}
	}

	switch len(ors) {
	case 0:
	case 1:
		params.Set("or", "("+ors[0]+")")
	default:
		groups := make([]string, 0, len(ors))
		for _, o := range ors {
			groups = append(groups, "or("+o+")")
		}
		params.Set("and", "("+strings.Join(groups, ",")+")")
	}

	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}
	return params
}

func restLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}

// restQuote envolve o valor em aspas duplas, o que permite vírgulas e
// parênteses dentro dos filtros lógicos.
func restQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func restError(table string, resp *resty.Response) error {
	pgErr, _ := resp.Error().(*postgrestError)
	if pgErr == nil || pgErr.Message == "" {
		return fmt.Errorf("%s: status %d: %s", table, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	if kind, ok := sqlStateKind(pgErr.Code); ok {
		constraint := ""
		if m := postgrestConstraint.FindStringSubmatch(pgErr.Message); m != nil {
			constraint = m[1]
		}
		return &ConstraintError{Kind: kind, Table: table, Constraint: constraint, Err: pgErr}
	}
	return fmt.Errorf("%s: status %d: %w", table, resp.StatusCode(), pgErr)
}
