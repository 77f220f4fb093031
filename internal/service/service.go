// Package service implements the portal's page operations over the shared
// collections. Every operation takes the caller's session explicitly.
package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"therapath-portal/internal/metrics"
	"therapath-portal/internal/model"
	"therapath-portal/internal/security"
	"therapath-portal/internal/store"
)

// Pusher delivers chat messages to a user's open connections.
type Pusher interface {
	Push(userID string, msg model.ChatMessage)
}

// PushFunc adapts a function to Pusher.
type PushFunc func(userID string, msg model.ChatMessage)

func (f PushFunc) Push(userID string, msg model.ChatMessage) { f(userID, msg) }

type nopPusher struct{}

func (nopPusher) Push(string, model.ChatMessage) {}

type Deps struct {
	Store     *store.Store
	Sanitizer security.Sanitizer
	Metrics   metrics.Recorder
	Pusher    Pusher
	Log       *zap.Logger
	Now       func() time.Time
}

// Services groups every page operation behind one value.
type Services struct {
	Appointments  *Appointments
	Announcements *Announcements
	Inquiries     *Inquiries
	Notifications *Notifications
	Records       *Records
	FollowUps     *FollowUps
	Counselors    *Counselors
	Dashboard     *Dashboard
	Chat          *Chat
}

func New(d Deps) *Services {
	if d.Sanitizer == nil {
		d.Sanitizer = security.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Pusher == nil {
		d.Pusher = nopPusher{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	notes := &Notifications{d: d}
	inq := &Inquiries{d: d, notes: notes}
	return &Services{
		Appointments:  &Appointments{d: d, notes: notes},
		Announcements: &Announcements{d: d, notes: notes},
		Inquiries:     inq,
		Notifications: notes,
		Records:       &Records{d: d},
		FollowUps:     &FollowUps{d: d},
		Counselors:    &Counselors{d: d},
		Dashboard:     &Dashboard{d: d},
		Chat:          &Chat{d: d, inquiries: inq},
	}
}

func requireAdmin(s model.Session) error {
	if !s.User.IsAdmin() {
		return model.ErrForbidden
	}
	return nil
}

func newID() string { return uuid.New().String() }

// matches reports whether any field contains term, case-insensitively.
// An empty term matches everything.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// today returns now's calendar date as YYYY-MM-DD in local time.
func today(now time.Time) string {
	return now.In(time.Local).Format("2006-01-02")
}
