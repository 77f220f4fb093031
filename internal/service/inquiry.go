package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"therapath-portal/internal/model"
	"therapath-portal/internal/store"
)

type Inquiries struct {
	d     Deps
	notes *Notifications
}

type InquiryInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit records an inquiry from the caller. Name, email and phone come from
// the session profile.
func (q *Inquiries) Submit(ctx context.Context, s model.Session, in InquiryInput) (model.Inquiry, error) {
	msg := q.d.Sanitizer.Sanitize(in.Message)
	if msg == "" {
		return model.Inquiry{}, model.NewValidationError(map[string]string{"message": "Message is required"})
	}
	subject := q.d.Sanitizer.Sanitize(in.Subject)
	if subject == "" {
		subject = model.DefaultChatSubject
	}
	phone := s.User.Phone
	if phone == "" {
		phone = model.AnonymousPhone
	}
	inq := model.Inquiry{
		ID:        newID(),
		UserID:    s.User.ID,
		Name:      s.User.Name,
		Email:     s.User.Email,
		Phone:     phone,
		Subject:   subject,
		Message:   msg,
		Status:    model.InquiryPending,
		CreatedAt: q.d.Now(),
	}
	if err := q.d.Store.Inquiries.Add(ctx, inq); err != nil {
		return model.Inquiry{}, fmt.Errorf("add inquiry: %w", err)
	}
	return inq, nil
}

// All lists inquiries for an admin, newest first, optionally by status.
func (q *Inquiries) All(ctx context.Context, s model.Session, status model.InquiryStatus) ([]model.Inquiry, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	all, err := q.d.Store.Inquiries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.Inquiry) bool { return status == "" || x.Status == status })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Mine lists the caller's inquiries in the order they were sent.
func (q *Inquiries) Mine(ctx context.Context, s model.Session) ([]model.Inquiry, error) {
	all, err := q.d.Store.Inquiries.List(ctx)
	if err != nil {
		return nil, err
	}
	out := store.Filter(all, func(x model.Inquiry) bool {
		return x.UserID == s.User.ID || (x.UserID == "" && strings.EqualFold(x.Email, s.User.Email))
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Respond answers an inquiry, notifies its author and pushes the reply to
// any open chat connection.
func (q *Inquiries) Respond(ctx context.Context, s model.Session, id, response string) (model.Inquiry, error) {
	if err := requireAdmin(s); err != nil {
		return model.Inquiry{}, err
	}
	response = q.d.Sanitizer.Sanitize(response)
	if response == "" {
		return model.Inquiry{}, model.NewValidationError(map[string]string{"response": "Response is required"})
	}
	inq, err := q.d.Store.Inquiries.Get(ctx, id)
	if err != nil {
		return model.Inquiry{}, err
	}
	now := q.d.Now()
	inq.Status = model.InquiryResponded
	inq.Response = response
	inq.RespondedAt = &now
	if err := q.d.Store.Inquiries.Update(ctx, inq); err != nil {
		return model.Inquiry{}, err
	}

	q.notes.notifyQuietly(ctx, inq.UserID, model.NotifyInquiryResponded,
		"Response to Your Inquiry",
		fmt.Sprintf("A counselor replied to \"%s\".", inq.Subject))
	if inq.UserID != "" {
		q.d.Pusher.Push(inq.UserID, counselorReply(inq))
	}
	q.d.Log.Info("inquiry answered", zap.String("inquiry_id", inq.ID))
	return inq, nil
}
