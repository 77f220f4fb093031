package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapath-portal/internal/model"
)

func TestSubmitInquiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inq, err := f.svc.Inquiries.Submit(ctx, f.alice, InquiryInput{Message: "Can I reschedule?"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChatSubject, inq.Subject)
	assert.Equal(t, model.InquiryPending, inq.Status)
	assert.Equal(t, f.alice.User.Email, inq.Email)
	assert.Equal(t, f.alice.User.Phone, inq.Phone)

	_, err = f.svc.Inquiries.Submit(ctx, f.alice, InquiryInput{Subject: "Empty", Message: "   "})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Message is required", verr.Fields["message"])
}

func TestAdminInquiryList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Inquiries.Submit(ctx, f.alice, InquiryInput{Message: "one"})
	require.NoError(t, err)
	second, err := f.svc.Inquiries.Submit(ctx, f.bob, InquiryInput{Message: "two"})
	require.NoError(t, err)
	_, err = f.svc.Inquiries.Respond(ctx, f.admin, second.ID, "answered")
	require.NoError(t, err)

	_, err = f.svc.Inquiries.All(ctx, f.alice, "")
	assert.ErrorIs(t, err, model.ErrForbidden)

	all, err := f.svc.Inquiries.All(ctx, f.admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.Inquiries.All(ctx, f.admin, model.InquiryPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "one", pending[0].Message)
}

func TestRespondNotifiesAndPushes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inq, err := f.svc.Inquiries.Submit(ctx, f.alice, InquiryInput{Subject: "Stress", Message: "Exams are close"})
	require.NoError(t, err)

	_, err = f.svc.Inquiries.Respond(ctx, f.admin, inq.ID, "  ")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.Inquiries.Respond(ctx, f.bob, inq.ID, "hi")
	assert.ErrorIs(t, err, model.ErrForbidden)

	got, err := f.svc.Inquiries.Respond(ctx, f.admin, inq.ID, "Let's talk on Friday")
	require.NoError(t, err)
	assert.Equal(t, model.InquiryResponded, got.Status)
	require.NotNil(t, got.RespondedAt)
	assert.Equal(t, fixedNow, *got.RespondedAt)

	notes := f.notes(t, f.alice)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotifyInquiryResponded, notes[0].Type)
	assert.Contains(t, notes[0].Message, "Stress")

	require.Len(t, f.pusher.sent, 1)
	assert.Equal(t, f.alice.User.ID, f.pusher.sent[0].userID)
	assert.Equal(t, model.SenderCounselor, f.pusher.sent[0].msg.Sender)
	assert.Equal(t, "Let's talk on Friday", f.pusher.sent[0].msg.Text)

	_, err = f.svc.Inquiries.Respond(ctx, f.admin, "missing", "hello")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChatWelcomeWhenEmpty(t *testing.T) {
	f := newFixture(t)

	msgs, err := f.svc.Chat.History(context.Background(), f.alice)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.SenderCounselor, msgs[0].Sender)
	assert.Contains(t, msgs[0].Text, "Hello Alice! Welcome to TheraPath Chat.")
	assert.Equal(t, model.CounselorName, msgs[0].CounselorName)
}

func TestChatSendAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, reply, err := f.svc.Chat.Send(ctx, f.alice, "", "I feel overwhelmed")
	require.NoError(t, err)
	assert.Equal(t, model.SenderUser, sent.Sender)
	assert.Equal(t, model.DefaultChatSubject, sent.Subject)
	assert.Equal(t, model.ChatAutoReply, reply.Text)
	assert.Contains(t, reply.Text, "+63 912 345 6789")

	// reply an hour later so ordering is by timestamp, not insertion
	admin := f.svc.Inquiries
	admin.d.Now = func() time.Time { return fixedNow.Add(time.Hour) }
	inqs, err := f.svc.Inquiries.Mine(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, inqs, 1)
	_, err = admin.Respond(ctx, f.admin, inqs[0].ID, "We are here for you")
	require.NoError(t, err)

	_, _, err = f.svc.Chat.Send(ctx, f.bob, "Hi", "bob's message")
	require.NoError(t, err)

	history, err := f.svc.Chat.History(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "I feel overwhelmed", history[0].Text)
	assert.Equal(t, model.SenderCounselor, history[1].Sender)
	assert.Equal(t, "We are here for you", history[1].Text)
	assert.True(t, history[1].Timestamp.After(history[0].Timestamp))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Alice", firstName("Alice Reyes"))
	assert.Equal(t, "there", firstName("  "))
}
