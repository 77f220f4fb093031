package model

import "time"

type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderCounselor ChatSender = "counselor"
)

// ChatMessage is a view over inquiries; it is never stored on its own.
type ChatMessage struct {
	ID            string        `json:"id"`
	Sender        ChatSender    `json:"sender"`
	Text          string        `json:"text"`
	Subject       string        `json:"subject,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
	Status        InquiryStatus `json:"status,omitempty"`
	CounselorName string        `json:"counselorName,omitempty"`
}

const (
	DefaultChatSubject = "Chat Message"

	ChatAutoReply = "Thank you for reaching out! Your message has been received and a counselor " +
		"will respond shortly. If this is an emergency, please call our crisis hotline at +63 912 345 6789."
)
