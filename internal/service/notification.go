package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
)

const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)

type Notifications struct {
	d Deps
}

// Notify stores a notification for userID. Anonymous targets are ignored.
func (n *Notifications) Notify(ctx context.Context, userID string, typ model.NotificationType, title, msg string) error {
	if userID == "" {
		return nil
	}
	note := model.Notification{
		ID:        newID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   msg,
		CreatedAt: n.d.Now(),
	}
	if err := n.d.Store.Notifications.Add(ctx, note); err != nil {
		return fmt.Errorf("add notification: %w", err)
	}
	return nil
}

// NotifyOnce is Notify unless userID already has a notification with the
// same type and message. It reports whether one was stored.
func (n *Notifications) NotifyOnce(ctx context.Context, userID string, typ model.NotificationType, title, msg string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	all, err := n.d.Store.Notifications.List(ctx)
	if err != nil {
		return false, err
	}
	for _, x := range all {
		if x.UserID == userID && x.Type == typ && x.Message == msg {
			return false, nil
		}
	}
	if err := n.Notify(ctx, userID, typ, title, msg); err != nil {
		return false, err
	}
	return true, nil
}

// notifyQuietly logs instead of failing the operation that triggered it.
func (n *Notifications) notifyQuietly(ctx context.Context, userID string, typ model.NotificationType, title, msg string) {
	if err := n.Notify(ctx, userID, typ, title, msg); err != nil {
		n.d.Log.Error("notify", zap.String("user_id", userID), zap.String("type", string(typ)), zap.Error(err))
	}
}

func (n *Notifications) own(ctx context.Context, s model.Session) ([]model.Notification, error) {
	all, err := n.d.Store.Notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	mine := store.Filter(all, func(x model.Notification) bool { return x.UserID == s.User.ID })
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	return mine, nil
}

// List returns the caller's notifications, newest first, filtered by
// all, unread or read, plus the unread count over all of them.
func (n *Notifications) List(ctx context.Context, s model.Session, filter string) ([]model.Notification, int, error) {
	mine, err := n.own(ctx, s)
	if err != nil {
		return nil, 0, err
	}
	unread := 0
	for _, x := range mine {
		if !x.Read {
			unread++
		}
	}
	switch filter {
	case "", FilterAll:
	case FilterUnread:
		mine = store.Filter(mine, func(x model.Notification) bool { return !x.Read })
	case FilterRead:
		mine = store.Filter(mine, func(x model.Notification) bool { return x.Read })
	default:
		return nil, 0, model.NewValidationError(map[string]string{"filter": "Filter must be all, unread or read"})
	}
	return mine, unread, nil
}

func (n *Notifications) get(ctx context.Context, s model.Session, id string) (model.Notification, error) {
	note, err := n.d.Store.Notifications.Get(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}
	// someone else's notification looks like a missing one
	if note.UserID != s.User.ID {
		return model.Notification{}, model.ErrNotFound
	}
	return note, nil
}

func (n *Notifications) MarkRead(ctx context.Context, s model.Session, id string) (model.Notification, error) {
	note, err := n.get(ctx, s, id)
	if err != nil {
		return model.Notification{}, err
	}
	if note.Read {
		return note, nil
	}
	note.Read = true
	if err := n.d.Store.Notifications.Update(ctx, note); err != nil {
		return model.Notification{}, err
	}
	return note, nil
}

// MarkAllRead returns how many notifications changed.
func (n *Notifications) MarkAllRead(ctx context.Context, s model.Session) (int, error) {
	mine, err := n.own(ctx, s)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, note := range mine {
		if note.Read {
			continue
		}
		note.Read = true
		if err := n.d.Store.Notifications.Update(ctx, note); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (n *Notifications) Delete(ctx context.Context, s model.Session, id string) error {
	if _, err := n.get(ctx, s, id); err != nil {
		return err
	}
	return n.d.Store.Notifications.Remove(ctx, id)
}
