package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapath-portal/internal/auth"
	"therapath-portal/internal/model"
)

func TestCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[model.Announcement]()

	require.NoError(t, c.Add(ctx, model.Announcement{ID: "a", Title: "first"}))
	require.NoError(t, c.Add(ctx, model.Announcement{ID: "b", Title: "second"}))
	assert.ErrorIs(t, c.Add(ctx, model.Announcement{ID: "a"}), model.ErrDuplicate)

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	got.Title = "changed"
	again, _ := c.Get(ctx, "a")
	assert.Equal(t, "first", again.Title, "values are copied out")

	require.NoError(t, c.Update(ctx, got))
	again, _ = c.Get(ctx, "a")
	assert.Equal(t, "changed", again.Title)

	assert.ErrorIs(t, c.Update(ctx, model.Announcement{ID: "zzz"}), model.ErrNotFound)
	assert.ErrorIs(t, c.Remove(ctx, "zzz"), model.ErrNotFound)
	_, err = c.Get(ctx, "zzz")
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, c.Remove(ctx, "a"))
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestCollectionListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[model.Notification]()
	for _, id := range []string{"3", "1", "2"} {
		require.NoError(t, c.Add(ctx, model.Notification{ID: id}))
	}
	list, _ := c.List(ctx)
	ids := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
}

func TestMemoryUsersUniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()

	require.NoError(t, users.Add(ctx, model.User{ID: "1", Email: "ana@x.io"}))
	assert.ErrorIs(t, users.Add(ctx, model.User{ID: "2", Email: "ana@x.io"}), model.ErrDuplicate)

	u, err := users.ByEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = users.ByEmail(ctx, "ANA@x.io")
	assert.ErrorIs(t, err, model.ErrNotFound, "email match is exact")
}

func TestMemoryAppointmentsSlotGuard(t *testing.T) {
	ctx := context.Background()
	c := newMemoryAppointments()
	booking := func(id, user string, st model.AppointmentStatus) model.Appointment {
		return model.Appointment{ID: id, UserID: user, Date: "2025-06-12", Time: "9:00 AM", Status: st}
	}

	require.NoError(t, c.Add(ctx, booking("1", "alice", model.StatusPending)))
	assert.ErrorIs(t, c.Add(ctx, booking("2", "alice", model.StatusPending)), model.ErrSlotTaken)
	assert.NoError(t, c.Add(ctx, booking("3", "bob", model.StatusPending)))
	assert.NoError(t, c.Add(ctx, booking("4", "", model.StatusPending)))
	assert.NoError(t, c.Add(ctx, booking("5", "", model.StatusPending)), "anonymous bookings never clash")

	require.NoError(t, c.Update(ctx, booking("1", "alice", model.StatusCancelled)))
	assert.NoError(t, c.Add(ctx, booking("6", "alice", model.StatusPending)), "cancelled bookings free the slot")
}

func TestMemoryAppointmentsConcurrentBooking(t *testing.T) {
	ctx := context.Background()
	c := newMemoryAppointments()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- c.Add(ctx, model.Appointment{
				ID: "apt-" + string(rune('a'+i)), UserID: "alice",
				Date: "2025-06-12", Time: "9:00 AM", Status: model.StatusPending,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	ok, taken := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrSlotTaken):
			taken++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, taken)
}

func TestCollectionConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- users.Add(ctx, model.User{ID: string(rune('a' + i)), Email: "same@x.io"})
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok, "only one registration per email wins")
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	admin := AdminSeed{Email: "admin@therapath.com", Password: "admin123"}

	require.NoError(t, Seed(ctx, st, admin))
	require.NoError(t, Seed(ctx, st, admin))

	u, err := st.Users.ByEmail(ctx, admin.Email)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "Administrator", u.Name)
	assert.True(t, auth.CheckPassword(u.Password, "admin123"))
	assert.WithinDuration(t, time.Now(), u.CreatedAt, time.Minute)

	users, _ := st.Users.List(ctx)
	assert.Len(t, users, 1)

	counselors, _ := st.Counselors.List(ctx)
	assert.Len(t, counselors, len(defaultCounselors))
}

func TestSeedWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	require.NoError(t, Seed(ctx, st, AdminSeed{}))
	users, _ := st.Users.List(ctx)
	assert.Empty(t, users)
}

func TestFilter(t *testing.T) {
	out := Filter([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 })
	assert.Equal(t, []int{2, 4}, out)
}
