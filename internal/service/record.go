package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
	"therapath-portal/internal/validate"
)

type Records struct {
	d Deps
}

type RecordFilter struct {
	Search string
	Status model.RecordStatus
}

// List returns client records for an admin, newest session first.
func (r *Records) List(ctx context.Context, s model.Session, f RecordFilter) ([]model.ClientRecord, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	all, err := r.d.Store.Records.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.ClientRecord) bool {
		return (f.Status == "" || x.Status == f.Status) &&
			matches(f.Search, x.ClientName, x.SessionType, x.Counselor)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].SessionDate > out[j].SessionDate })
	return out, nil
}

// Create stores a session record. When a follow-up is required a reminder is
// created alongside it.
func (r *Records) Create(ctx context.Context, s model.Session, f model.ClientRecordForm) (model.ClientRecord, *model.FollowUp, error) {
	if err := requireAdmin(s); err != nil {
		return model.ClientRecord{}, nil, err
	}
	if err := validate.ClientRecordForm(f).Err(); err != nil {
		return model.ClientRecord{}, nil, err
	}
	now := r.d.Now()
	rec := model.ClientRecord{
		ID:               newID(),
		ClientName:       strings.TrimSpace(f.ClientName),
		AppointmentID:    strings.TrimSpace(f.AppointmentID),
		SessionType:      strings.TrimSpace(f.SessionType),
		SessionDate:      strings.TrimSpace(f.SessionDate),
		Duration:         strings.TrimSpace(f.Duration),
		Counselor:        strings.TrimSpace(f.Counselor),
		Notes:            r.d.Sanitizer.Sanitize(f.Notes),
		Status:           model.RecordActive,
		FollowUpRequired: f.FollowUpRequired,
		CreatedAt:        now,
	}
	if f.FollowUpRequired {
		rec.FollowUpDate = strings.TrimSpace(f.FollowUpDate)
	}
	if err := r.d.Store.Records.Add(ctx, rec); err != nil {
		return model.ClientRecord{}, nil, fmt.Errorf("add record: %w", err)
	}
	if !f.FollowUpRequired {
		return rec, nil, nil
	}

	prio := model.Priority(strings.TrimSpace(f.Priority))
	if !prio.Valid() {
		prio = model.PriorityMedium
	}
	fu := model.FollowUp{
		ID:              newID(),
		RecordID:        rec.ID,
		ClientName:      rec.ClientName,
		Counselor:       rec.Counselor,
		Concern:         r.d.Sanitizer.Sanitize(f.Concern),
		LastSessionDate: rec.SessionDate,
		FollowUpDate:    rec.FollowUpDate,
		Priority:        prio,
		CreatedAt:       now,
	}
	if err := r.d.Store.FollowUps.Add(ctx, fu); err != nil {
		return rec, nil, fmt.Errorf("add follow-up: %w", err)
	}
	r.d.Log.Info("follow-up scheduled", zap.String("record_id", rec.ID), zap.String("date", fu.FollowUpDate))
	return rec, &fu, nil
}

type FollowUps struct {
	d Deps
}

// FollowUpView is a reminder with its overdue flag resolved against now.
type FollowUpView struct {
	model.FollowUp
	Overdue bool `json:"overdue"`
}

// List returns reminders for an admin, earliest follow-up first, optionally
// narrowed to one priority.
func (f *FollowUps) List(ctx context.Context, s model.Session, prio model.Priority) ([]FollowUpView, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if prio != "" && !prio.Valid() {
		return nil, model.NewValidationError(map[string]string{"priority": "Priority must be low, medium or high"})
	}
	all, err := f.d.Store.FollowUps.List(ctx)
	if err != nil {
		return nil, err
	}
	now := f.d.Now()
	out := make([]FollowUpView, 0, len(all))
	for _, x := range all {
		if prio != "" && x.Priority != prio {
			continue
		}
		out = append(out, FollowUpView{FollowUp: x, Overdue: overdue(x.FollowUpDate, now)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FollowUpDate < out[j].FollowUpDate })
	return out, nil
}

func overdue(date string, now time.Time) bool {
	d, ok := validate.ParseDate(date)
	return ok && d.Before(now)
}

// Complete removes a reminder.
func (f *FollowUps) Complete(ctx context.Context, s model.Session, id string) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	return f.d.Store.FollowUps.Remove(ctx, id)
}

// DueOn returns the reminders scheduled for date.
func (f *FollowUps) DueOn(ctx context.Context, date string) ([]model.FollowUp, error) {
	all, err := f.d.Store.FollowUps.List(ctx)
	if err != nil {
		return nil, err
	}
	return store.Filter(all, func(x model.FollowUp) bool { return x.FollowUpDate == date }), nil
}
