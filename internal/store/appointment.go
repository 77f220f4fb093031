package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

func appointmentsTable(pool *pgxpool.Pool) *table[model.Appointment] {
	return &table[model.Appointment]{
		pool: pool,
		name: "appointments",
		cols: []string{
			"id", "user_id", "user_name", "user_email", "user_phone", "date", "time",
			"type", "status", "notes", "is_anonymous", "created_at", "updated_at",
		},
		orderBy: "created_at",
		scan: func(s scanner) (model.Appointment, error) {
			var a model.Appointment
			err := s.Scan(
				&a.ID, &a.UserID, &a.UserName, &a.UserEmail, &a.UserPhone, &a.Date, &a.Time,
				&a.Type, &a.Status, &a.Notes, &a.IsAnonymous, &a.CreatedAt, &a.UpdatedAt,
			)
			return a, err
		},
		values: func(a model.Appointment) []any {
			return []any{
				a.ID, a.UserID, a.UserName, a.UserEmail, a.UserPhone, a.Date, a.Time,
				a.Type, a.Status, a.Notes, a.IsAnonymous, a.CreatedAt, a.UpdatedAt,
			}
		},
	}
}
