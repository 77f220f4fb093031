package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

func announcementsTable(pool *pgxpool.Pool) *table[model.Announcement] {
	return &table[model.Announcement]{
		pool: pool,
		name: "announcements",
		cols: []string{
			"id", "title", "content", "category", "priority", "expires_at",
			"is_active", "created_by", "created_at",
		},
		orderBy: "created_at",
		scan: func(s scanner) (model.Announcement, error) {
			var a model.Announcement
			err := s.Scan(
				&a.ID, &a.Title, &a.Content, &a.Category, &a.Priority, &a.ExpiresAt,
				&a.IsActive, &a.CreatedBy, &a.CreatedAt,
			)
			return a, err
		},
		values: func(a model.Announcement) []any {
			return []any{
				a.ID, a.Title, a.Content, a.Category, a.Priority, a.ExpiresAt,
				a.IsActive, a.CreatedBy, a.CreatedAt,
			}
		},
	}
}
