package api

import (
	"therapath-portal/internal/model"
	"therapath-portal/internal/service"
)

type Empty struct{}

type IDRequest struct {
	ID string `json:"id"`
}

// SessionResponse carries the bearer token for later calls. The profile never
// includes the password hash.
type SessionResponse struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

type RouteRequest struct {
	Path string `json:"path"`
}

type AppointmentQuery struct {
	Search string                  `json:"search"`
	Status model.AppointmentStatus `json:"status"`
}

type AppointmentResponse struct {
	Appointment model.Appointment `json:"appointment"`
}

type AppointmentList struct {
	Appointments []model.Appointment `json:"appointments"`
}

type StatusRequest struct {
	ID     string                  `json:"id"`
	Status model.AppointmentStatus `json:"status"`
}

type CalendarRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type CalendarResponse struct {
	Days map[string][]model.Appointment `json:"days"`
}

type SlotsRequest struct {
	Date string `json:"date"`
}

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type SlotsResponse struct {
	Slots []Slot   `json:"slots"`
	Types []string `json:"types"`
}

type AnnouncementQuery struct {
	Category string `json:"category"`
}

type AnnouncementList struct {
	Announcements []model.Announcement `json:"announcements"`
	Categories    []string             `json:"categories"`
}

type AdminAnnouncementList struct {
	Active  []model.Announcement `json:"active"`
	Expired []model.Announcement `json:"expired"`
}

type AnnouncementUpdate struct {
	ID string `json:"id"`
	model.AnnouncementForm
}

type AnnouncementResponse struct {
	Announcement model.Announcement `json:"announcement"`
}

type InquiryQuery struct {
	Status model.InquiryStatus `json:"status"`
}

type InquiryList struct {
	Inquiries []model.Inquiry `json:"inquiries"`
}

type InquiryResponse struct {
	Inquiry model.Inquiry `json:"inquiry"`
}

type RespondRequest struct {
	ID       string `json:"id"`
	Response string `json:"response"`
}

type NotificationQuery struct {
	Filter string `json:"filter"`
}

type NotificationList struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

type NotificationResponse struct {
	Notification model.Notification `json:"notification"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type RecordQuery struct {
	Search string             `json:"search"`
	Status model.RecordStatus `json:"status"`
}

type RecordList struct {
	Records []model.ClientRecord `json:"records"`
}

type RecordCreated struct {
	Record   model.ClientRecord `json:"record"`
	FollowUp *model.FollowUp    `json:"followUp,omitempty"`
}

type FollowUpQuery struct {
	Priority model.Priority `json:"priority"`
}

type FollowUpList struct {
	FollowUps []service.FollowUpView `json:"followUps"`
}

type CounselorList struct {
	Counselors []model.Counselor `json:"counselors"`
}

type ChatHistory struct {
	Messages []model.ChatMessage `json:"messages"`
}

type ChatSendRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type ChatSendResponse struct {
	Sent  model.ChatMessage `json:"sent"`
	Reply model.ChatMessage `json:"reply"`
}
