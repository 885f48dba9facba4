package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// FaultFunc permite que testes simulem falhas do armazenamento.
// Recebe a operação ("insert", "update", ...) e a tabela.
type FaultFunc func(op, table string) error

type memoryRow struct {
	seq  int64
	data map[string]any
}

// Memory é um Store em memória, usado em testes e com STORE_BACKEND=memory.
type Memory struct {
	mu      sync.RWMutex
	tables  map[string][]*memoryRow
	unique  map[string][]string
	seq     int64
	faultFn FaultFunc
}

type MemoryOption func(*Memory)

// WithUnique declara uma coluna única, como faria um índice do banco.
func WithUnique(table, column string) MemoryOption {
	return func(m *Memory) {
		m.unique[table] = append(m.unique[table], column)
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables: map[string][]*memoryRow{},
		unique: map[string][]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetFault instala (ou remove, com nil) um injetor de falhas.
func (m *Memory) SetFault(fn FaultFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faultFn = fn
}

func (m *Memory) fault(op, table string) error {
	if m.faultFn == nil {
		return nil
	}
	return m.faultFn(op, table)
}

// Len devolve o número de linhas de uma tabela.
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func (m *Memory) Find(_ context.Context, table string, q Query, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault("find", table); err != nil {
		return err
	}

	rows := m.selectRows(table, q)
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.data)
	}
	return decodeInto(out, dest)
}

func (m *Memory) FindOne(_ context.Context, table string, q Query, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault("find", table); err != nil {
		return err
	}

	rows := m.selectRows(table, q)
	if len(rows) == 0 {
		return ErrNotFound
	}
	return decodeInto(rows[0].data, dest)
}

func (m *Memory) Insert(_ context.Context, table string, doc any, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault("insert", table); err != nil {
		return err
	}

	data, err := toRow(doc)
	if err != nil {
		return fmt.Errorf("%s: codificando registro: %w", table, err)
	}
	if err := m.checkUnique(table, data, nil); err != nil {
		return err
	}

	m.seq++
	m.tables[table] = append(m.tables[table], &memoryRow{seq: m.seq, data: data})
	if dest == nil {
		return nil
	}
	return decodeInto(data, dest)
}

func (m *Memory) Update(_ context.Context, table string, q Query, patch map[string]any, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault("update", table); err != nil {
		return err
	}

	norm, err := toRow(patch)
	if err != nil {
		return fmt.Errorf("%s: codificando alteração: %w", table, err)
	}

	rows := m.selectRows(table, q)
	if len(rows) == 0 {
		return ErrNotFound
	}

	// Valida tudo antes de escrever: a operação é atômica.
	for _, r := range rows {
		merged := mergeRow(r.data, norm)
		if err := m.checkUnique(table, merged, r); err != nil {
			return err
		}
	}
	for _, r := range rows {
		r.data = mergeRow(r.data, norm)
	}

	if dest == nil {
		return nil
	}
	return decodeInto(rows[0].data, dest)
}

func (m *Memory) Delete(_ context.Context, table string, q Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault("delete", table); err != nil {
		return err
	}

	kept := m.tables[table][:0]
	for _, r := range m.tables[table] {
		if !matchAll(r.data, q.Filters) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return nil
}

func (m *Memory) CountBy(_ context.Context, table, column string, q Query) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault("count", table); err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, r := range m.selectRows(table, Query{Filters: q.Filters}) {
		counts[groupKey(r.data[column])]++
	}
	return counts, nil
}

func (m *Memory) CountElements(_ context.Context, table, column string, q Query) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fault("count", table); err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, r := range m.selectRows(table, Query{Filters: q.Filters}) {
		items, _ := r.data[column].([]any)
		for _, item := range items {
			counts[groupKey(item)]++
		}
	}
	return counts, nil
}

func (m *Memory) Increment(_ context.Context, table, column string, q Query, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fault("update", table); err != nil {
		return err
	}

	rows := m.selectRows(table, q)
	if len(rows) == 0 {
		return ErrNotFound
	}
	for _, r := range rows {
		current, _ := r.data[column].(float64)
		r.data = mergeRow(r.data, map[string]any{column: current + float64(delta)})
	}
	return nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}

func (m *Memory) selectRows(table string, q Query) []*memoryRow {
	var rows []*memoryRow
	for _, r := range m.tables[table] {
		if matchAll(r.data, q.Filters) {
			rows = append(rows, r)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			c := compareValues(rows[i].data[q.OrderBy], rows[j].data[q.OrderBy])
			if c == 0 {
				c = compareInt(rows[i].seq, rows[j].seq)
			}
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows
}

func (m *Memory) checkUnique(table string, data map[string]any, self *memoryRow) error {
	for _, column := range m.unique[table] {
		value, ok := data[column]
		if !ok || value == nil {
			continue
		}
		for _, other := range m.tables[table] {
			if other == self {
				continue
			}
			if reflect.DeepEqual(other.data[column], value) {
				return &ConstraintError{
					Kind:       UniqueViolation,
					Table:      table,
					Constraint: table + "_" + column + "_key",
					Err:        fmt.Errorf("valor duplicado para %s", column),
				}
			}
		}
	}
	return nil
}

func matchAll(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !matchFilter(row, f) {
			return false
		}
	}
	return true
}

func matchFilter(row map[string]any, f Filter) bool {
	switch f.Kind {
	case FilterEq:
		return reflect.DeepEqual(row[f.Column], normalize(f.Value))
	case FilterILikeAny:
		term := strings.ToLower(fmt.Sprint(f.Value))
		for _, column := range f.Columns {
			s, ok := row[column].(string)
			if ok && strings.Contains(strings.ToLower(s), term) {
				return true
			}
		}
		return false
	case FilterOverlaps:
		items, _ := row[f.Column].([]any)
		for _, item := range items {
			for _, want := range f.Values {
				if item == want {
					return true
				}
			}
		}
		return false
	}
	return false
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 1
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, ok := b.(string)
		if !ok {
			return 1
		}
		at, errA := time.Parse(time.RFC3339Nano, av)
		bt, errB := time.Parse(time.RFC3339Nano, bv)
		if errA == nil && errB == nil {
			return at.Compare(bt)
		}
		return strings.Compare(av, bv)
	case bool:
		bv, _ := b.(bool)
		if av == bv {
			return 0
		}
		if !av {
			return -1
		}
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func groupKey(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func mergeRow(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// toRow converte um registro na representação JSON usada pelas colunas.
func toRow(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func decodeInto(src any, dest any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
