package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapath-portal/internal/model"
)

func setupPG(t *testing.T) (*Store, *pgxpool.Pool) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(pool))
	return New(pool), pool
}

func TestPostgresUsers(t *testing.T) {
	st, _ := setupPG(t)
	ctx := context.Background()

	email := "pg-" + uuid.New().String()[:8] + "@test.com"
	u := model.User{
		ID: uuid.New().String(), Name: "PG User", Email: email, Password: "hash",
		Phone: "0917 123 4567", Role: model.RoleUser, CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, st.Users.Add(ctx, u))
	t.Cleanup(func() { _ = st.Users.Remove(ctx, u.ID) })

	dup := u
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, st.Users.Add(ctx, dup), model.ErrDuplicate)

	got, err := st.Users.ByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, model.RoleUser, got.Role)

	_, err = st.Users.ByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostgresAppointmentCRUD(t *testing.T) {
	st, _ := setupPG(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := model.Appointment{
		ID: uuid.New().String(), UserID: uuid.New().String(), UserName: "Ana", UserEmail: "ana@x.io",
		UserPhone: "0917 123 4567", Date: "2030-01-02", Time: "9:00 AM",
		Type: "Career Guidance", Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Appointments.Add(ctx, a))

	a.Status = model.StatusConfirmed
	require.NoError(t, st.Appointments.Update(ctx, a))

	got, err := st.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	require.NoError(t, st.Appointments.Remove(ctx, a.ID))
	assert.ErrorIs(t, st.Appointments.Remove(ctx, a.ID), model.ErrNotFound)
	assert.ErrorIs(t, st.Appointments.Update(ctx, a), model.ErrNotFound)
}

func TestPostgresAppointmentSlotIndex(t *testing.T) {
	st, _ := setupPG(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	first := model.Appointment{
		ID: uuid.New().String(), UserID: uuid.New().String(), UserName: "Ana", UserEmail: "ana@x.io",
		UserPhone: "0917 123 4567", Date: "2030-01-03", Time: "10:00 AM",
		Type: "Career Guidance", Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Appointments.Add(ctx, first))
	t.Cleanup(func() { _ = st.Appointments.Remove(ctx, first.ID) })

	again := first
	again.ID = uuid.New().String()
	assert.ErrorIs(t, st.Appointments.Add(ctx, again), model.ErrSlotTaken)

	first.Status = model.StatusCancelled
	require.NoError(t, st.Appointments.Update(ctx, first))
	require.NoError(t, st.Appointments.Add(ctx, again), "cancelled bookings free the slot")
	t.Cleanup(func() { _ = st.Appointments.Remove(ctx, again.ID) })

	anon := first
	anon.UserID = ""
	anon.Status = model.StatusPending
	for i := 0; i < 2; i++ {
		anon.ID = uuid.New().String()
		require.NoError(t, st.Appointments.Add(ctx, anon), "anonymous bookings share slots")
		id := anon.ID
		t.Cleanup(func() { _ = st.Appointments.Remove(ctx, id) })
	}
}

func TestPostgresSessionRecords(t *testing.T) {
	_, pool := setupPG(t)
	ctx := context.Background()
	rec := NewSessionRecords(pool)

	key := "therapath_user:" + uuid.New().String()
	require.NoError(t, rec.Set(ctx, key, []byte(`{"id":"1"}`), 0))
	data, err := rec.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(data))

	require.NoError(t, rec.Set(ctx, key, []byte(`{"id":"2"}`), time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	_, err = rec.Get(ctx, key)
	assert.ErrorIs(t, err, model.ErrNotFound)

	n, err := rec.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, rec.Delete(ctx, key))
}
