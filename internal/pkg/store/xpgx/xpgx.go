package xpgx

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier реализуют и *pgxpool.Pool, и pgx.Tx. Begin на транзакции
// открывает savepoint.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool добавляет к Querier методы, принимающие squirrel-запросы.
type Pool interface {
	Querier
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	QueryRowx(ctx context.Context, query sq.Sqlizer) pgx.Row
	Queryx(ctx context.Context, query sq.Sqlizer) (pgx.Rows, error)
	// BeginFunc выполняет fn в транзакции (или savepoint'е, если Pool уже
	// транзакционный). Ошибка fn откатывает только этот уровень.
	BeginFunc(ctx context.Context, fn func(Pool) error) error
}

type pool struct {
	Querier
}

func Wrap(q Querier) Pool {
	return &pool{Querier: q}
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build query: %w", err)
	}
	return p.Exec(ctx, sql, args...)
}

func (p *pool) QueryRowx(ctx context.Context, query sq.Sqlizer) pgx.Row {
	sql, args, err := query.ToSql()
	if err != nil {
		return errRow{err: fmt.Errorf("build query: %w", err)}
	}
	return p.QueryRow(ctx, sql, args...)
}

func (p *pool) Queryx(ctx context.Context, query sq.Sqlizer) (pgx.Rows, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return p.Query(ctx, sql, args...)
}

func (p *pool) BeginFunc(ctx context.Context, fn func(Pool) error) error {
	return pgx.BeginFunc(ctx, p.Querier, func(tx pgx.Tx) error {
		return fn(Wrap(tx))
	})
}

// Getx возвращает ровно одну строку, отображённую на T по db-тегам.
// Если строк нет, возвращается pgx.ErrNoRows.
func Getx[T any](ctx context.Context, p Pool, query sq.Sqlizer) (*T, error) {
	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// Selectx возвращает все строки запроса.
func Selectx[T any](ctx context.Context, p Pool, query sq.Sqlizer) ([]*T, error) {
	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// Scalars собирает первый столбец каждой строки.
func Scalars[T any](ctx context.Context, p Pool, query sq.Sqlizer) ([]T, error) {
	rows, err := p.Queryx(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[T])
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
