package model

// Form inputs as submitted by the portal. Field names in validation errors
// use the json names below.

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
}

type AppointmentForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Notes       string `json:"notes"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type AnnouncementForm struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	ExpiresAt string `json:"expiresAt"`
}

type ClientRecordForm struct {
	ClientName       string `json:"clientName"`
	AppointmentID    string `json:"appointmentId"`
	SessionType      string `json:"sessionType"`
	SessionDate      string `json:"sessionDate"`
	Duration         string `json:"duration"`
	Counselor        string `json:"counselor"`
	Notes            string `json:"notes"`
	Concern          string `json:"concern"`
	FollowUpRequired bool   `json:"followUpRequired"`
	FollowUpDate     string `json:"followUpDate"`
	Priority         string `json:"priority"`
}
