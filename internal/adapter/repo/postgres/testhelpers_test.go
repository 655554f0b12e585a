package postgres_test

import (
	"context"
	"errors"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowStub implements pgx.Row
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// rowValues returns a rowStub that copies vals into the scan targets.
func rowValues(vals ...any) rowStub {
	return rowStub{scan: func(dest ...any) error { return assign(dest, vals) }}
}

// rowsStub implements pgx.Rows over in-memory values.
type rowsStub struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (r *rowsStub) Close()                                       { r.closed = true }
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rowsStub) Scan(dest ...any) error { return assign(dest, r.data[r.i-1]) }

func (r *rowsStub) Values() ([]any, error) { return r.data[r.i-1], nil }

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return errors.New("scan arity mismatch")
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(vals[i]))
	}
	return nil
}

// poolStub implements postgres.PgxPool for tests and records the last call.
type poolStub struct {
	execTag  pgconn.CommandTag
	execErr  error
	row      rowStub
	rows     *rowsStub
	queryErr error

	lastSQL  string
	lastArgs []any
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.lastSQL, p.lastArgs = sql, args
	return p.execTag, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.lastSQL, p.lastArgs = sql, args
	if p.row.scan == nil {
		return rowStub{scan: func(_ ...any) error { return errors.New("no row configured") }}
	}
	return p.row
}

func (p *poolStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.lastSQL, p.lastArgs = sql, args
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.rows == nil {
		return &rowsStub{}, nil
	}
	return p.rows, nil
}

func strp(s string) *string    { return &s }
func f64p(f float64) *float64 { return &f }
