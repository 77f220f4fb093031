// Package store holds the portal's shared collections behind one repository
// contract, with an in-memory and a PostgreSQL implementation.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"therapath-portal/internal/model"
)

type Entity interface {
	Key() string
}

// Repository is the CRUD capability every collection exposes. Get, Update and
// Remove return model.ErrNotFound for unknown ids; Add returns
// model.ErrDuplicate when the id (or a unique field) is taken.
type Repository[T Entity] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Add(ctx context.Context, v T) error
	Update(ctx context.Context, v T) error
	Remove(ctx context.Context, id string) error
}

type UserRepository interface {
	Repository[model.User]
	ByEmail(ctx context.Context, email string) (model.User, error)
}

type Store struct {
	Users         UserRepository
	Appointments  Repository[model.Appointment]
	Announcements Repository[model.Announcement]
	Inquiries     Repository[model.Inquiry]
	Notifications Repository[model.Notification]
	Records       Repository[model.ClientRecord]
	FollowUps     Repository[model.FollowUp]
	Counselors    Repository[model.Counselor]
}

// New returns a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:         &pgUsers{table: usersTable(pool)},
		Appointments:  appointmentsTable(pool),
		Announcements: announcementsTable(pool),
		Inquiries:     inquiriesTable(pool),
		Notifications: notificationsTable(pool),
		Records:       recordsTable(pool),
		FollowUps:     followUpsTable(pool),
		Counselors:    counselorsTable(pool),
	}
}

// NewMemory returns a Store that lives in process memory.
func NewMemory() *Store {
	return &Store{
		Users:         newMemoryUsers(),
		Appointments:  newMemoryAppointments(),
		Announcements: NewCollection[model.Announcement](),
		Inquiries:     NewCollection[model.Inquiry](),
		Notifications: NewCollection[model.Notification](),
		Records:       NewCollection[model.ClientRecord](),
		FollowUps:     NewCollection[model.FollowUp](),
		Counselors:    NewCollection[model.Counselor](),
	}
}

// Filter returns the elements of list matching keep, in order.
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
