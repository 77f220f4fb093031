package store

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

func recordsTable(pool *pgxpool.Pool) *table[model.ClientRecord] {
	return &table[model.ClientRecord]{
		pool: pool,
		name: "client_records",
		cols: []string{
			"id", "client_name", "appointment_id", "session_type", "session_date", "duration",
			"counselor", "notes", "status", "follow_up_required", "follow_up_date", "created_at",
		},
		orderBy: "created_at",
		scan: func(s scanner) (model.ClientRecord, error) {
			var r model.ClientRecord
			err := s.Scan(
				&r.ID, &r.ClientName, &r.AppointmentID, &r.SessionType, &r.SessionDate, &r.Duration,
				&r.Counselor, &r.Notes, &r.Status, &r.FollowUpRequired, &r.FollowUpDate, &r.CreatedAt,
			)
			return r, err
		},
		values: func(r model.ClientRecord) []any {
			return []any{
				r.ID, r.ClientName, r.AppointmentID, r.SessionType, r.SessionDate, r.Duration,
				r.Counselor, r.Notes, r.Status, r.FollowUpRequired, r.FollowUpDate, r.CreatedAt,
			}
		},
	}
}

func followUpsTable(pool *pgxpool.Pool) *table[model.FollowUp] {
	return &table[model.FollowUp]{
		pool: pool,
		name: "follow_ups",
		cols: []string{
			"id", "record_id", "client_name", "counselor", "concern",
			"last_session_date", "follow_up_date", "priority", "created_at",
		},
		orderBy: "follow_up_date",
		scan: func(s scanner) (model.FollowUp, error) {
			var f model.FollowUp
			err := s.Scan(
				&f.ID, &f.RecordID, &f.ClientName, &f.Counselor, &f.Concern,
				&f.LastSessionDate, &f.FollowUpDate, &f.Priority, &f.CreatedAt,
			)
			return f, err
		},
		values: func(f model.FollowUp) []any {
			return []any{
				f.ID, f.RecordID, f.ClientName, f.Counselor, f.Concern,
				f.LastSessionDate, f.FollowUpDate, f.Priority, f.CreatedAt,
			}
		},
	}
}

func counselorsTable(pool *pgxpool.Pool) *table[model.Counselor] {
	return &table[model.Counselor]{
		pool: pool,
		name: "counselors",
		cols: []string{
			"id", "name", "email", "contact", "specialization", "credentials",
			"available_days", "available_times", "image",
		},
		orderBy: "name",
		scan: func(s scanner) (model.Counselor, error) {
			var c model.Counselor
			err := s.Scan(
				&c.ID, &c.Name, &c.Email, &c.Contact, &c.Specialization, &c.Credentials,
				&c.AvailableDays, &c.AvailableTimes, &c.Image,
			)
			return c, err
		},
		values: func(c model.Counselor) []any {
			return []any{
				c.ID, c.Name, c.Email, c.Contact, c.Specialization, c.Credentials,
				c.AvailableDays, c.AvailableTimes, c.Image,
			}
		},
	}
}
