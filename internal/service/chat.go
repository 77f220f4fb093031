package service

import (
	"context"
	"sort"
	"strings"

	"therapath-portal/internal/model"
)

// Chat presents a user's inquiries as a conversation with the counseling
// team.
type Chat struct {
	d         Deps
	inquiries *Inquiries
}

func userMessage(inq model.Inquiry) model.ChatMessage {
	return model.ChatMessage{
		ID:        "user-" + inq.ID,
		Sender:    model.SenderUser,
		Text:      inq.Message,
		Subject:   inq.Subject,
		Timestamp: inq.CreatedAt,
		Status:    inq.Status,
	}
}

func counselorReply(inq model.Inquiry) model.ChatMessage {
	msg := model.ChatMessage{
		ID:            "counselor-" + inq.ID,
		Sender:        model.SenderCounselor,
		Text:          inq.Response,
		CounselorName: model.CounselorName,
	}
	if inq.RespondedAt != nil {
		msg.Timestamp = *inq.RespondedAt
	}
	return msg
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "there"
}

// History returns the caller's conversation in time order, or a single
// welcome message when there is none yet.
func (c *Chat) History(ctx context.Context, s model.Session) ([]model.ChatMessage, error) {
	mine, err := c.inquiries.Mine(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(mine) == 0 {
		return []model.ChatMessage{{
			ID:     "welcome",
			Sender: model.SenderCounselor,
			Text: "Hello " + firstName(s.User.Name) + "! Welcome to TheraPath Chat. I'm here to listen and " +
				"support you. Feel free to share anything on your mind. This is a safe and confidential " +
				"space. How can I help you today?",
			Timestamp:     c.d.Now(),
			CounselorName: model.CounselorName,
		}}, nil
	}

	var out []model.ChatMessage
	for _, inq := range mine {
		out = append(out, userMessage(inq))
		if inq.Status == model.InquiryResponded && inq.Response != "" {
			out = append(out, counselorReply(inq))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// Send stores the message as an inquiry and returns it together with the
// automatic acknowledgement.
func (c *Chat) Send(ctx context.Context, s model.Session, subject, text string) (sent, reply model.ChatMessage, err error) {
	inq, err := c.inquiries.Submit(ctx, s, InquiryInput{Subject: subject, Message: text})
	if err != nil {
		return model.ChatMessage{}, model.ChatMessage{}, err
	}
	reply = model.ChatMessage{
		ID:            "auto-" + inq.ID,
		Sender:        model.SenderCounselor,
		Text:          model.ChatAutoReply,
		Timestamp:     c.d.Now(),
		CounselorName: model.CounselorName,
	}
	return userMessage(inq), reply, nil
}
