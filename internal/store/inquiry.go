package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

func inquiriesTable(pool *pgxpool.Pool) *table[model.Inquiry] {
	return &table[model.Inquiry]{
		pool: pool,
		name: "inquiries",
		cols: []string{
			"id", "user_id", "name", "email", "phone", "subject", "message",
			"status", "response", "responded_at", "created_at",
		},
		orderBy: "created_at",
		scan: func(s scanner) (model.Inquiry, error) {
			var i model.Inquiry
			err := s.Scan(
				&i.ID, &i.UserID, &i.Name, &i.Email, &i.Phone, &i.Subject, &i.Message,
				&i.Status, &i.Response, &i.RespondedAt, &i.CreatedAt,
			)
			return i, err
		},
		values: func(i model.Inquiry) []any {
			return []any{
				i.ID, i.UserID, i.Name, i.Email, i.Phone, i.Subject, i.Message,
				i.Status, i.Response, i.RespondedAt, i.CreatedAt,
			}
		},
	}
}

func notificationsTable(pool *pgxpool.Pool) *table[model.Notification] {
	return &table[model.Notification]{
		pool:    pool,
		name:    "notifications",
		cols:    []string{"id", "user_id", "type", "title", "message", "read", "created_at"},
		orderBy: "created_at DESC",
		scan: func(s scanner) (model.Notification, error) {
			var n model.Notification
			err := s.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
			return n, err
		},
		values: func(n model.Notification) []any {
			return []any{n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt}
		},
	}
}
