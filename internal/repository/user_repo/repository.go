package user_repo

import (
	"clusterpay_backend/internal/repository"
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table      = "users"
	colID      = "id"
	colBalance = "balance"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserRepository(dbc *pgxpool.Pool) repository.UserRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetBalance - balance of the user by id
func (r *repo) GetBalance(ctx context.Context, id int) (int64, error) {
	sqlStr, args, err := balanceQuery(id)
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrUserNotFound
		}
		return 0, err
	}

	return balance, nil
}

// Debit - conditional decrement, a single statement so concurrent spins cannot overdraw
func (r *repo) Debit(ctx context.Context, id int, amount int64) (bool, error) {
	sqlStr, args, err := debitQuery(id, amount)
	if err != nil {
		return false, err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// Credit - adds amount to the balance
func (r *repo) Credit(ctx context.Context, id int, amount int64) error {
	sqlStr, args, err := creditQuery(id, amount)
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func balanceQuery(id int) (string, []any, error) {
	return sq.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func debitQuery(id int, amount int64) (string, []any, error) {
	return sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" - ?", amount)).
		Where(sq.Eq{colID: id}).
		Where(sq.GtOrEq{colBalance: amount}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func creditQuery(id int, amount int64) (string, []any, error) {
	return sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", amount)).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}
