package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
	"therapath-portal/internal/validate"
)

type Appointments struct {
	d     Deps
	notes *Notifications
}

type AppointmentFilter struct {
	Search string
	Status model.AppointmentStatus // empty for any
}

// transitions lists the moves an admin may make from each status.
var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

func CanTransition(from, to model.AppointmentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Book validates and stores a pending appointment for the caller. Anonymous
// bookings drop the caller's identity entirely.
func (a *Appointments) Book(ctx context.Context, s model.Session, f model.AppointmentForm) (model.Appointment, error) {
	now := a.d.Now()
	if err := validate.AppointmentForm(f, now).Err(); err != nil {
		return model.Appointment{}, err
	}
	if err := catalogCheck(f); err != nil {
		return model.Appointment{}, err
	}

	apt := model.Appointment{
		ID:          newID(),
		Date:        strings.TrimSpace(f.Date),
		Time:        strings.TrimSpace(f.Time),
		Type:        strings.TrimSpace(f.Type),
		Status:      model.StatusPending,
		Notes:       a.d.Sanitizer.Sanitize(f.Notes),
		IsAnonymous: f.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if f.IsAnonymous {
		apt.UserName = model.AnonymousName
		apt.UserEmail = model.AnonymousEmail
		apt.UserPhone = model.AnonymousPhone
	} else {
		apt.UserID = s.User.ID
		apt.UserName = strings.TrimSpace(f.Name)
		apt.UserEmail = strings.TrimSpace(f.Email)
		apt.UserPhone = strings.TrimSpace(f.Phone)
	}

	// the store refuses a second active booking in the same slot atomically
	if err := a.d.Store.Appointments.Add(ctx, apt); err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			return model.Appointment{}, model.ErrSlotTaken
		}
		return model.Appointment{}, fmt.Errorf("add appointment: %w", err)
	}
	a.d.Metrics.RecordBooking(apt.IsAnonymous)
	a.d.Log.Info("appointment booked",
		zap.String("appointment_id", apt.ID),
		zap.Bool("anonymous", apt.IsAnonymous),
		zap.String("date", apt.Date),
	)
	return apt, nil
}

// catalogCheck limits bookings to the offered slots and session types.
func catalogCheck(f model.AppointmentForm) error {
	errs := map[string]string{}
	if !slices.Contains(model.TimeSlots, strings.TrimSpace(f.Time)) {
		errs["time"] = "Please select a valid time slot"
	}
	if !slices.Contains(model.AppointmentTypes, strings.TrimSpace(f.Type)) {
		errs["type"] = "Please select a valid appointment type"
	}
	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

func sortByDate(list []model.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return slotMinutes(list[i].Time) < slotMinutes(list[j].Time)
	})
}

func slotMinutes(slot string) int {
	h, m, _ := validate.ParseSlot(slot)
	return h*60 + m
}

// Mine lists the caller's appointments, searching type and notes.
func (a *Appointments) Mine(ctx context.Context, s model.Session, f AppointmentFilter) ([]model.Appointment, error) {
	all, err := a.d.Store.Appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.Appointment) bool {
		return x.UserID == s.User.ID &&
			(f.Status == "" || x.Status == f.Status) &&
			matches(f.Search, x.Type, x.Notes)
	})
	sortByDate(out)
	return out, nil
}

// All lists every appointment for an admin, searching name, email and type.
func (a *Appointments) All(ctx context.Context, s model.Session, f AppointmentFilter) ([]model.Appointment, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	all, err := a.d.Store.Appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.Appointment) bool {
		return (f.Status == "" || x.Status == f.Status) &&
			matches(f.Search, x.UserName, x.UserEmail, x.Type)
	})
	sortByDate(out)
	return out, nil
}

// SetStatus moves an appointment along pending -> confirmed -> completed,
// with cancellation allowed from either open state. The owner is notified of
// confirmations and cancellations.
func (a *Appointments) SetStatus(ctx context.Context, s model.Session, id string, to model.AppointmentStatus) (model.Appointment, error) {
	if err := requireAdmin(s); err != nil {
		return model.Appointment{}, err
	}
	apt, err := a.d.Store.Appointments.Get(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	if !CanTransition(apt.Status, to) {
		return model.Appointment{}, fmt.Errorf("%w: %s to %s", model.ErrBadTransition, apt.Status, to)
	}
	apt.Status = to
	apt.UpdatedAt = a.d.Now()
	if err := a.d.Store.Appointments.Update(ctx, apt); err != nil {
		return model.Appointment{}, err
	}
	a.d.Metrics.RecordStatusChange(string(to))

	when := apt.Date + " at " + apt.Time
	switch to {
	case model.StatusConfirmed:
		a.notes.notifyQuietly(ctx, apt.UserID, model.NotifyAppointmentConfirmed,
			"Appointment Confirmed",
			fmt.Sprintf("Your %s appointment on %s has been confirmed.", apt.Type, when))
	case model.StatusCancelled:
		a.notes.notifyQuietly(ctx, apt.UserID, model.NotifyAppointmentCancelled,
			"Appointment Cancelled",
			fmt.Sprintf("Your %s appointment on %s has been cancelled.", apt.Type, when))
	}
	return apt, nil
}

// Cancel lets a user withdraw one of their own open appointments.
func (a *Appointments) Cancel(ctx context.Context, s model.Session, id string) (model.Appointment, error) {
	apt, err := a.d.Store.Appointments.Get(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	if apt.UserID == "" || apt.UserID != s.User.ID {
		return model.Appointment{}, model.ErrNotFound
	}
	if !apt.Active() {
		return model.Appointment{}, fmt.Errorf("%w: appointment is %s", model.ErrBadTransition, apt.Status)
	}
	apt.Status = model.StatusCancelled
	apt.UpdatedAt = a.d.Now()
	if err := a.d.Store.Appointments.Update(ctx, apt); err != nil {
		return model.Appointment{}, err
	}
	a.d.Metrics.RecordStatusChange(string(model.StatusCancelled))
	return apt, nil
}

// Calendar groups the caller's appointments in one month by date.
func (a *Appointments) Calendar(ctx context.Context, s model.Session, year, month int) (map[string][]model.Appointment, error) {
	if month < 1 || month > 12 {
		return nil, model.NewValidationError(map[string]string{"month": "Month must be between 1 and 12"})
	}
	mine, err := a.Mine(ctx, s, AppointmentFilter{})
	if err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	out := map[string][]model.Appointment{}
	for _, x := range mine {
		if strings.HasPrefix(x.Date, prefix) {
			out[x.Date] = append(out[x.Date], x)
		}
	}
	return out, nil
}

// Slots reports which time slots on date can still be booked by the caller.
func (a *Appointments) Slots(ctx context.Context, s model.Session, date string) (map[string]bool, error) {
	now := a.d.Now()
	if !validate.Date(date, now) {
		return nil, model.NewValidationError(map[string]string{"date": "Date must be today or in the future"})
	}
	mine, err := a.Mine(ctx, s, AppointmentFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(model.TimeSlots))
	for _, slot := range model.TimeSlots {
		out[slot] = !validate.TimeInPast(date, slot, now)
	}
	for _, x := range mine {
		if x.Date == date && x.Active() {
			out[x.Time] = false
		}
	}
	return out, nil
}

// Upcoming returns open appointments starting within the window after now.
func (a *Appointments) Upcoming(ctx context.Context, window time.Duration) ([]model.Appointment, error) {
	all, err := a.d.Store.Appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	now := a.d.Now()
	out := store.Filter(all, func(x model.Appointment) bool {
		if x.UserID == "" || x.Status != model.StatusConfirmed {
			return false
		}
		at, ok := validate.SlotTime(x.Date, x.Time)
		return ok && at.After(now) && !at.After(now.Add(window))
	})
	sortByDate(out)
	return out, nil
}
