package service

import (
	"context"
	"strings"

	"therapath-portal/internal/model"
)

type Dashboard struct {
	d Deps
}

type UserStats struct {
	TotalAppointments    int                 `json:"totalAppointments"`
	UpcomingAppointments int                 `json:"upcomingAppointments"`
	CompletedSessions    int                 `json:"completedSessions"`
	UnreadNotifications  int                 `json:"unreadNotifications"`
	Upcoming             []model.Appointment `json:"upcoming"`
}

type AdminStats struct {
	TotalAppointments     int            `json:"totalAppointments"`
	PendingAppointments   int            `json:"pendingAppointments"`
	ConfirmedAppointments int            `json:"confirmedAppointments"`
	CompletedAppointments int            `json:"completedAppointments"`
	CancelledAppointments int            `json:"cancelledAppointments"`
	TotalClients          int            `json:"totalClients"`
	TotalInquiries        int            `json:"totalInquiries"`
	PendingInquiries      int            `json:"pendingInquiries"`
	ActiveRecords         int            `json:"activeRecords"`
	ByType                map[string]int `json:"byType"`
}

// User summarises the caller's appointments and notifications.
func (d *Dashboard) User(ctx context.Context, s model.Session) (UserStats, error) {
	all, err := d.d.Store.Appointments.List(ctx)
	if err != nil {
		return UserStats{}, err
	}
	st := UserStats{Upcoming: []model.Appointment{}}
	for _, x := range all {
		if x.UserID != s.User.ID {
			continue
		}
		st.TotalAppointments++
		switch {
		case x.Active():
			st.UpcomingAppointments++
			st.Upcoming = append(st.Upcoming, x)
		case x.Status == model.StatusCompleted:
			st.CompletedSessions++
		}
	}
	sortByDate(st.Upcoming)

	notes, err := d.d.Store.Notifications.List(ctx)
	if err != nil {
		return UserStats{}, err
	}
	for _, n := range notes {
		if n.UserID == s.User.ID && !n.Read {
			st.UnreadNotifications++
		}
	}
	return st, nil
}

// Admin summarises the whole portal. Clients are counted by distinct
// e-mail across non-anonymous appointments.
func (d *Dashboard) Admin(ctx context.Context, s model.Session) (AdminStats, error) {
	if err := requireAdmin(s); err != nil {
		return AdminStats{}, err
	}
	apts, err := d.d.Store.Appointments.List(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	st := AdminStats{ByType: map[string]int{}}
	clients := map[string]bool{}
	for _, x := range apts {
		st.TotalAppointments++
		st.ByType[x.Type]++
		switch x.Status {
		case model.StatusPending:
			st.PendingAppointments++
		case model.StatusConfirmed:
			st.ConfirmedAppointments++
		case model.StatusCompleted:
			st.CompletedAppointments++
		case model.StatusCancelled:
			st.CancelledAppointments++
		}
		if !x.IsAnonymous && x.UserEmail != "" {
			clients[strings.ToLower(x.UserEmail)] = true
		}
	}
	st.TotalClients = len(clients)

	inqs, err := d.d.Store.Inquiries.List(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	st.TotalInquiries = len(inqs)
	for _, q := range inqs {
		if q.Status == model.InquiryPending {
			st.PendingInquiries++
		}
	}

	recs, err := d.d.Store.Records.List(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	for _, r := range recs {
		if r.Status == model.RecordActive {
			st.ActiveRecords++
		}
	}
	return st, nil
}
