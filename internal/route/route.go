// Package route decides which portal page a path shows for a given session.
package route

import (
	"strings"

	"therapath-portal/internal/model"
)

type Page string

const (
	Home     Page = "home"
	About    Page = "about"
	Login    Page = "login"
	Register Page = "register"

	UserDashboard    Page = "user.dashboard"
	BookAppointment  Page = "user.book-appointment"
	MyAppointments   Page = "user.my-appointments"
	Notifications    Page = "user.notifications"
	UserAnnouncement Page = "user.announcements"
	Calendar         Page = "user.calendar"
	Chat             Page = "user.chat"

	AdminDashboard     Page = "admin.dashboard"
	ManageAppointments Page = "admin.appointments"
	ClientRecords      Page = "admin.records"
	AdminAnnouncements Page = "admin.announcements"
	InquiryManager     Page = "admin.inquiries"
	CounselorRoster    Page = "admin.counselors"
	BarangayMap        Page = "admin.barangay-map"
	FollowUps          Page = "admin.follow-ups"
)

const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathUserDashboard  = "/user/dashboard"
	PathAdminDashboard = "/admin/dashboard"
)

type access int

const (
	public access = iota
	guestOnly
	signedIn
	adminOnly
)

type entry struct {
	page   Page
	access access
}

var table = map[string]entry{
	"/":         {Home, public},
	"/about":    {About, public},
	"/login":    {Login, guestOnly},
	"/register": {Register, guestOnly},

	"/user/dashboard":        {UserDashboard, signedIn},
	"/user/book-appointment": {BookAppointment, signedIn},
	"/user/my-appointments":  {MyAppointments, signedIn},
	"/user/notifications":    {Notifications, signedIn},
	"/user/announcements":    {UserAnnouncement, signedIn},
	"/user/calendar":         {Calendar, signedIn},
	"/user/chat":             {Chat, signedIn},

	"/admin/dashboard":     {AdminDashboard, adminOnly},
	"/admin/appointments":  {ManageAppointments, adminOnly},
	"/admin/records":       {ClientRecords, adminOnly},
	"/admin/announcements": {AdminAnnouncements, adminOnly},
	"/admin/inquiries":     {InquiryManager, adminOnly},
	"/admin/counselors":    {CounselorRoster, adminOnly},
	"/admin/barangay-map":  {BarangayMap, adminOnly},
	"/admin/follow-ups":    {FollowUps, adminOnly},
}

// Decision is either a page to render or a path to redirect to, never both.
type Decision struct {
	Page     Page   `json:"page,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func show(p Page) Decision          { return Decision{Page: p} }
func redirect(path string) Decision { return Decision{Redirect: path} }

// DashboardFor returns the landing path for a signed-in profile.
func DashboardFor(p model.Profile) string {
	if p.IsAdmin() {
		return PathAdminDashboard
	}
	return PathUserDashboard
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Resolve maps a path to a page for s, which is nil when nobody is signed in.
// Public pages stay reachable after login, and a guest asking for a protected
// page is sent to login rather than home. Only unknown paths fall through to
// the catch-all redirect.
func Resolve(path string, s *model.Session) Decision {
	e, ok := table[clean(path)]
	if !ok {
		if s != nil {
			return redirect(PathUserDashboard)
		}
		return redirect(PathHome)
	}

	switch e.access {
	case guestOnly:
		if s != nil {
			return redirect(DashboardFor(s.User))
		}
	case signedIn:
		if s == nil {
			return redirect(PathLogin)
		}
	case adminOnly:
		if s == nil {
			return redirect(PathLogin)
		}
		if !s.User.IsAdmin() {
			return redirect(PathUserDashboard)
		}
	}
	return show(e.page)
}
