// Package worker runs the portal's periodic housekeeping: appointment and
// follow-up reminders, announcement expiry and session cleanup.
package worker

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"therapath-portal/internal/metrics"
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
	"therapath-portal/internal/store"
)

// Purger removes expired persisted sessions.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Options struct {
	Schedule string        // standard five-field cron spec
	Lead     time.Duration // how far ahead appointment reminders go out
	Mailer   Mailer        // nil disables e-mail
	Purger   Purger        // nil when sessions expire on their own
	Metrics  metrics.Recorder
	Now      func() time.Time
}

type Reminder struct {
	svc      *service.Services
	users    store.UserRepository
	opts     Options
	schedule cron.Schedule
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

func NewReminder(svc *service.Services, users store.UserRepository, opts Options, logger *zap.Logger) (*Reminder, error) {
	schedule, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", opts.Schedule, err)
	}
	if opts.Lead <= 0 {
		opts.Lead = 24 * time.Hour
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminder{
		svc:      svc,
		users:    users,
		opts:     opts,
		schedule: schedule,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the job on its schedule until Stop.
func (r *Reminder) Start() {
	r.logger.Info("Reminder worker started", zap.String("schedule", r.opts.Schedule))
	go r.run()
}

// Stop waits for a run in progress to finish.
func (r *Reminder) Stop() {
	close(r.stopChan)
	<-r.done
	r.logger.Info("Reminder worker stopped")
}

func (r *Reminder) run() {
	defer close(r.done)
	for {
		next := r.schedule.Next(r.opts.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("Reminder run failed", zap.Error(err))
			}
			cancel()
		case <-r.stopChan:
			timer.Stop()
			return
		}
	}
}

// Result counts what one run did.
type Result struct {
	AppointmentReminders int
	FollowUpReminders    int
	ExpiredAnnouncements int
	PurgedSessions       int64
}

// RunOnce performs every housekeeping step. Steps are independent; the
// first error is returned after all of them ran.
func (r *Reminder) RunOnce(ctx context.Context) (Result, error) {
	var res Result
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	n, err := r.appointmentReminders(ctx)
	res.AppointmentReminders = n
	keep(err)

	n, err = r.followUpReminders(ctx)
	res.FollowUpReminders = n
	keep(err)

	n, err = r.svc.Announcements.Expire(ctx)
	res.ExpiredAnnouncements = n
	keep(err)

	if r.opts.Purger != nil {
		purged, err := r.opts.Purger.PurgeExpired(ctx)
		res.PurgedSessions = purged
		keep(err)
	}

	r.opts.Metrics.RecordReminders(res.AppointmentReminders + res.FollowUpReminders)
	r.logger.Info("Reminder run finished",
		zap.Int("appointment_reminders", res.AppointmentReminders),
		zap.Int("follow_up_reminders", res.FollowUpReminders),
		zap.Int("expired_announcements", res.ExpiredAnnouncements),
		zap.Int64("purged_sessions", res.PurgedSessions),
	)
	return res, firstErr
}

func (r *Reminder) appointmentReminders(ctx context.Context) (int, error) {
	upcoming, err := r.svc.Appointments.Upcoming(ctx, r.opts.Lead)
	if err != nil {
		return 0, fmt.Errorf("upcoming appointments: %w", err)
	}
	sent := 0
	for _, apt := range upcoming {
		msg := fmt.Sprintf("Reminder: your %s appointment is on %s at %s.", apt.Type, apt.Date, apt.Time)
		ok, err := r.svc.Notifications.NotifyOnce(ctx, apt.UserID, model.NotifyAppointmentReminder, "Appointment Reminder", msg)
		if err != nil {
			return sent, err
		}
		if !ok {
			continue
		}
		sent++
		r.mail(apt.UserEmail, "Appointment Reminder", msg)
	}
	return sent, nil
}

func (r *Reminder) followUpReminders(ctx context.Context) (int, error) {
	today := r.opts.Now().Format("2006-01-02")
	due, err := r.svc.FollowUps.DueOn(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("due follow-ups: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}
	users, err := r.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	sent := 0
	for _, fu := range due {
		msg := fmt.Sprintf("Follow-up with %s is due today (%s priority).", fu.ClientName, fu.Priority)
		for _, u := range users {
			if u.Role != model.RoleAdmin {
				continue
			}
			ok, err := r.svc.Notifications.NotifyOnce(ctx, u.ID, model.NotifyFollowUp, "Follow-up Due", msg)
			if err != nil {
				return sent, err
			}
			if ok {
				sent++
				r.mail(u.Email, "Follow-up Due", msg)
			}
		}
	}
	return sent, nil
}

func (r *Reminder) mail(to, subject, text string) {
	if r.opts.Mailer == nil || to == "" || to == model.AnonymousEmail {
		return
	}
	body := "<p>" + html.EscapeString(text) + "</p><p>TheraPath Counseling</p>"
	if err := r.opts.Mailer.Send(to, subject, body); err != nil {
		r.logger.Warn("Reminder e-mail failed", zap.String("to", to), zap.Error(err))
	}
}
