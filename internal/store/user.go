package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

func usersTable(pool *pgxpool.Pool) *table[model.User] {
	return &table[model.User]{
		pool:    pool,
		name:    "users",
		cols:    []string{"id", "name", "email", "password_hash", "phone", "role", "created_at"},
		orderBy: "created_at",
		scan: func(s scanner) (model.User, error) {
			var u model.User
			err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Phone, &u.Role, &u.CreatedAt)
			return u, err
		},
		values: func(u model.User) []any {
			return []any{u.ID, u.Name, u.Email, u.Password, u.Phone, u.Role, u.CreatedAt}
		},
	}
}

type pgUsers struct {
	*table[model.User]
}

// ByEmail is an exact match; the unique index on email backs registration.
func (p *pgUsers) ByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := p.scan(p.pool.QueryRow(ctx, p.selectSQL()+" WHERE email = $1", email))
	if err != nil {
		return model.User{}, pgErr(err)
	}
	return u, nil
}
