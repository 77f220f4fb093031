// Package session owns the current identity of a client: login, registration,
// logout and restoring a persisted session record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"therapath-portal/internal/auth"
	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
	"therapath-portal/internal/validate"
)

// KeyPrefix names the persisted record; the full key is KeyPrefix:<session id>.
const KeyPrefix = "therapath_user"

func Key(sid string) string { return KeyPrefix + ":" + sid }

// Storage holds serialized session records. Get returns model.ErrNotFound
// when no record exists.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Manager struct {
	users   store.UserRepository
	storage Storage
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// NewManager builds a Manager. ttl <= 0 keeps records until logout.
func NewManager(users store.UserRepository, storage Storage, ttl time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{users: users, storage: storage, ttl: ttl, log: log, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Login checks the credentials and persists a new session. Unknown email and
// wrong password both yield model.ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Session, error) {
	if err := validate.LoginForm(model.LoginForm{Email: email, Password: password}).Err(); err != nil {
		return model.Session{}, err
	}
	u, err := m.users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(u.Password, password) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	return m.establish(ctx, u.Profile())
}

// Register creates a user with role user and logs it in. A taken email
// yields model.ErrEmailTaken and leaves the user collection untouched.
func (m *Manager) Register(ctx context.Context, f model.RegisterForm) (model.Session, error) {
	if err := validate.RegisterForm(f).Err(); err != nil {
		return model.Session{}, err
	}
	email := strings.TrimSpace(f.Email)

	_, err := m.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return model.Session{}, model.ErrEmailTaken
	case !errors.Is(err, model.ErrNotFound):
		return model.Session{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		return model.Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(f.Name),
		Email:     email,
		Password:  hash,
		Phone:     strings.TrimSpace(f.Phone),
		Role:      model.RoleUser,
		CreatedAt: m.now(),
	}
	if err := m.users.Add(ctx, u); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.Session{}, model.ErrEmailTaken
		}
		return model.Session{}, fmt.Errorf("add user: %w", err)
	}
	m.log.Info("user registered", zap.String("user_id", u.ID))
	return m.establish(ctx, u.Profile())
}

// Logout clears the record. A missing record is not an error.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := m.storage.Delete(ctx, Key(sid)); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Restore reads the persisted record. A missing record yields
// model.ErrNoSession; an unreadable one is deleted first.
func (m *Manager) Restore(ctx context.Context, sid string) (model.Session, error) {
	if sid == "" {
		return model.Session{}, model.ErrNoSession
	}
	data, err := m.storage.Get(ctx, Key(sid))
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrNoSession
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("read session: %w", err)
	}

	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		m.log.Warn("discarding malformed session record", zap.String("key", Key(sid)))
		if err := m.storage.Delete(ctx, Key(sid)); err != nil {
			m.log.Error("delete malformed session", zap.Error(err))
		}
		return model.Session{}, model.ErrNoSession
	}
	return model.Session{ID: sid, User: p}, nil
}

func (m *Manager) establish(ctx context.Context, p model.Profile) (model.Session, error) {
	sid, err := auth.NewSessionID()
	if err != nil {
		return model.Session{}, fmt.Errorf("session id: %w", err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return model.Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := m.storage.Set(ctx, Key(sid), data, m.ttl); err != nil {
		return model.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return model.Session{ID: sid, User: p}, nil
}

type ctxKey struct{}

func WithSession(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(model.Session)
	return s, ok
}
