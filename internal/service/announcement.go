package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
	"therapath-portal/internal/validate"
)

type Announcements struct {
	d     Deps
	notes *Notifications
}

func newestFirst(list []model.Announcement) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}

// Active lists active announcements, optionally narrowed to one category
// ("" or "all" for every category).
func (a *Announcements) Active(ctx context.Context, category string) ([]model.Announcement, error) {
	all, err := a.d.Store.Announcements.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.Announcement) bool {
		return x.IsActive && (category == "" || category == "all" || x.Category == category)
	})
	newestFirst(out)
	return out, nil
}

// Categories lists the distinct categories of active announcements.
func (a *Announcements) Categories(ctx context.Context) ([]string, error) {
	active, err := a.Active(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, x := range active {
		if !seen[x.Category] {
			seen[x.Category] = true
			out = append(out, x.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// All returns active and expired announcements for the admin view.
func (a *Announcements) All(ctx context.Context, s model.Session) (active, expired []model.Announcement, err error) {
	if err := requireAdmin(s); err != nil {
		return nil, nil, err
	}
	all, err := a.d.Store.Announcements.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	newestFirst(all)
	active = store.Filter(all, func(x model.Announcement) bool { return x.IsActive })
	expired = store.Filter(all, func(x model.Announcement) bool { return !x.IsActive })
	return active, expired, nil
}

func (a *Announcements) clean(f model.AnnouncementForm) model.AnnouncementForm {
	f.Title = a.d.Sanitizer.Sanitize(f.Title)
	f.Content = a.d.Sanitizer.Sanitize(f.Content)
	f.Category = strings.TrimSpace(f.Category)
	f.Priority = strings.TrimSpace(f.Priority)
	if d, ok := validate.ParseDate(f.ExpiresAt); ok {
		f.ExpiresAt = d.Format(validate.DateLayout)
	}
	return f
}

// Create publishes an announcement and notifies every registered user.
func (a *Announcements) Create(ctx context.Context, s model.Session, f model.AnnouncementForm) (model.Announcement, error) {
	if err := requireAdmin(s); err != nil {
		return model.Announcement{}, err
	}
	f = a.clean(f)
	if err := validate.AnnouncementForm(f, a.d.Now()).Err(); err != nil {
		return model.Announcement{}, err
	}
	ann := model.Announcement{
		ID:        newID(),
		Title:     f.Title,
		Content:   f.Content,
		Category:  f.Category,
		Priority:  model.Priority(f.Priority),
		ExpiresAt: f.ExpiresAt,
		IsActive:  true,
		CreatedBy: s.User.Name,
		CreatedAt: a.d.Now(),
	}
	if err := a.d.Store.Announcements.Add(ctx, ann); err != nil {
		return model.Announcement{}, fmt.Errorf("add announcement: %w", err)
	}

	users, err := a.d.Store.Users.List(ctx)
	if err != nil {
		return ann, nil
	}
	for _, u := range users {
		if u.Role == model.RoleUser {
			a.notes.notifyQuietly(ctx, u.ID, model.NotifyAnnouncement, "New Announcement", ann.Title)
		}
	}
	return ann, nil
}

// Update replaces the editable fields of an announcement.
func (a *Announcements) Update(ctx context.Context, s model.Session, id string, f model.AnnouncementForm) (model.Announcement, error) {
	if err := requireAdmin(s); err != nil {
		return model.Announcement{}, err
	}
	f = a.clean(f)
	if err := validate.AnnouncementForm(f, a.d.Now()).Err(); err != nil {
		return model.Announcement{}, err
	}
	ann, err := a.d.Store.Announcements.Get(ctx, id)
	if err != nil {
		return model.Announcement{}, err
	}
	ann.Title = f.Title
	ann.Content = f.Content
	ann.Category = f.Category
	ann.Priority = model.Priority(f.Priority)
	ann.ExpiresAt = f.ExpiresAt
	ann.IsActive = true
	if err := a.d.Store.Announcements.Update(ctx, ann); err != nil {
		return model.Announcement{}, err
	}
	return ann, nil
}

func (a *Announcements) Delete(ctx context.Context, s model.Session, id string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	return a.d.Store.Announcements.Remove(ctx, id)
}

// Expire deactivates announcements whose expiry date has passed and returns
// how many changed.
func (a *Announcements) Expire(ctx context.Context) (int, error) {
	all, err := a.d.Store.Announcements.List(ctx)
	if err != nil {
		return 0, err
	}
	now := a.d.Now()
	n := 0
	for _, x := range all {
		if !x.IsActive || validate.Date(x.ExpiresAt, now) {
			continue
		}
		x.IsActive = false
		if err := a.d.Store.Announcements.Update(ctx, x); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
