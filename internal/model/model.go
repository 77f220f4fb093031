package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Key() string { return u.ID }

// Profile is a User without its password. It is the only user shape that
// leaves the session layer.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

type Session struct {
	ID   string  `json:"id"`
	User Profile `json:"user"`
}

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"` // empty for anonymous bookings
	UserName    string            `json:"userName"`
	UserEmail   string            `json:"userEmail"`
	UserPhone   string            `json:"userPhone"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Time        string            `json:"time"` // slot label, e.g. "9:00 AM"
	Type        string            `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes"`
	IsAnonymous bool              `json:"isAnonymous"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a Appointment) Key() string { return a.ID }

// Active reports whether the appointment still holds its slot.
func (a Appointment) Active() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority"`
	ExpiresAt string    `json:"expiresAt"` // YYYY-MM-DD
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a Announcement) Key() string { return a.ID }

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryResponded InquiryStatus = "responded"
)

type Inquiry struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Subject     string        `json:"subject"`
	Message     string        `json:"message"`
	Status      InquiryStatus `json:"status"`
	Response    string        `json:"response"`
	RespondedAt *time.Time    `json:"respondedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (i Inquiry) Key() string { return i.ID }

type NotificationType string

const (
	NotifyAppointmentConfirmed NotificationType = "appointment_confirmed"
	NotifyAppointmentReminder  NotificationType = "appointment_reminder"
	NotifyAppointmentCancelled NotificationType = "appointment_cancelled"
	NotifyAnnouncement         NotificationType = "announcement"
	NotifyInquiryResponded     NotificationType = "inquiry_responded"
	NotifyFollowUp             NotificationType = "follow_up"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (n Notification) Key() string { return n.ID }

type RecordStatus string

const (
	RecordActive    RecordStatus = "active"
	RecordCompleted RecordStatus = "completed"
	RecordPending   RecordStatus = "pending"
)

type ClientRecord struct {
	ID               string       `json:"id"`
	ClientName       string       `json:"clientName"`
	AppointmentID    string       `json:"appointmentId"`
	SessionType      string       `json:"sessionType"`
	SessionDate      string       `json:"sessionDate"`
	Duration         string       `json:"duration"`
	Counselor        string       `json:"counselor"`
	Notes            string       `json:"notes"`
	Status           RecordStatus `json:"status"`
	FollowUpRequired bool         `json:"followUpRequired"`
	FollowUpDate     string       `json:"followUpDate"`
	CreatedAt        time.Time    `json:"createdAt"`
}

func (r ClientRecord) Key() string { return r.ID }

type FollowUp struct {
	ID              string    `json:"id"`
	RecordID        string    `json:"recordId"`
	ClientName      string    `json:"clientName"`
	Counselor       string    `json:"counselor"`
	Concern         string    `json:"concern"`
	LastSessionDate string    `json:"lastSessionDate"`
	FollowUpDate    string    `json:"followUpDate"`
	Priority        Priority  `json:"priority"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (f FollowUp) Key() string { return f.ID }

type Counselor struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Contact        string   `json:"contact"`
	Specialization string   `json:"specialization"`
	Credentials    string   `json:"credentials"`
	AvailableDays  []string `json:"availableDays"`
	AvailableTimes string   `json:"availableTimes"`
	Image          string   `json:"image"`
}

func (c Counselor) Key() string { return c.ID }
