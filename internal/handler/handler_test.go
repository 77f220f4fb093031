package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"therapath-portal/internal/api"
	"therapath-portal/internal/handler"
	"therapath-portal/internal/middleware"
	"therapath-portal/internal/model"
	"therapath-portal/internal/route"
	"therapath-portal/internal/service"
	"therapath-portal/internal/session"
	"therapath-portal/internal/store"
)

const secret = "test-secret"

var fixedNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.Local)

type env struct {
	h    *handler.Handler
	st   *store.Store
	conn *grpc.ClientConn
}

func setup(t *testing.T) *env {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, store.Seed(context.Background(), st, store.AdminSeed{
		Name: "Admin User", Email: "admin@therapath.com", Password: "admin123",
	}))

	svc := service.New(service.Deps{Store: st, Now: func() time.Time { return fixedNow }})
	sessions := session.NewManager(st.Users, session.NewMemoryStorage(), time.Hour, nil)
	h := handler.New(sessions, svc, secret, nil, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.Recovery(nil),
		middleware.Logging(nil, nil),
		middleware.Auth(middleware.NewAuthenticator(sessions, secret)),
	))
	api.RegisterPortalServer(srv, h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &env{h: h, st: st, conn: conn}
}

func withToken(tok string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+tok)
}

func call[Req, Resp any](e *env, ctx context.Context, method string, in *Req) (*Resp, error) {
	return api.Invoke[Req, Resp](ctx, e.conn, method, in)
}

func (e *env) register(t *testing.T, name string) *api.SessionResponse {
	t.Helper()
	email := fmt.Sprintf("%s@school.edu", name)
	resp, err := call[model.RegisterForm, api.SessionResponse](e, context.Background(), "Register", &model.RegisterForm{
		Name: name, Email: email, Password: "secret123", ConfirmPassword: "secret123", Phone: "0917 123 4567",
	})
	require.NoError(t, err)
	return resp
}

func (e *env) adminLogin(t *testing.T) *api.SessionResponse {
	t.Helper()
	resp, err := call[model.LoginForm, api.SessionResponse](e, context.Background(), "Login", &model.LoginForm{
		Email: "admin@therapath.com", Password: "admin123",
	})
	require.NoError(t, err)
	return resp
}

func code(err error) codes.Code { return status.Code(err) }

func TestRegisterAndMe(t *testing.T) {
	e := setup(t)

	reg := e.register(t, "alice")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, model.RoleUser, reg.User.Role)

	me, err := call[api.Empty, model.Profile](e, withToken(reg.Token), "Me", &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.ID)
	assert.Equal(t, "alice@school.edu", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	e := setup(t)

	_, err := call[model.RegisterForm, api.SessionResponse](e, context.Background(), "Register", &model.RegisterForm{
		Email: "not-an-email", Password: "abc", ConfirmPassword: "xyz",
	})
	require.Equal(t, codes.InvalidArgument, code(err))
	fields := handler.FieldErrors(err)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Password must be at least 6 characters", fields["password"])
	assert.Equal(t, "Passwords do not match", fields["confirmPassword"])
}

func TestRegisterDuplicate(t *testing.T) {
	e := setup(t)
	e.register(t, "alice")

	_, err := call[model.RegisterForm, api.SessionResponse](e, context.Background(), "Register", &model.RegisterForm{
		Name: "Again", Email: "alice@school.edu", Password: "secret123", ConfirmPassword: "secret123", Phone: "0917 123 4567",
	})
	assert.Equal(t, codes.AlreadyExists, code(err))
}

func TestLogin(t *testing.T) {
	e := setup(t)
	e.register(t, "alice")

	tests := []struct {
		name     string
		email    string
		password string
		want     codes.Code
	}{
		{"ok", "alice@school.edu", "secret123", codes.OK},
		{"wrong password", "alice@school.edu", "wrong-pass", codes.Unauthenticated},
		{"unknown user", "nobody@school.edu", "secret123", codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := call[model.LoginForm, api.SessionResponse](e, context.Background(), "Login", &model.LoginForm{
				Email: tt.email, Password: tt.password,
			})
			assert.Equal(t, tt.want, code(err))
			if tt.want == codes.OK {
				assert.NotEmpty(t, resp.Token)
			} else {
				assert.Equal(t, model.ErrInvalidCredentials.Error(), status.Convert(err).Message())
			}
		})
	}
}

func TestLoginRejectsMalformedForm(t *testing.T) {
	e := setup(t)

	_, err := call[model.LoginForm, api.SessionResponse](e, context.Background(), "Login", &model.LoginForm{
		Email: "not-an-email", Password: "",
	})
	require.Equal(t, codes.InvalidArgument, code(err))
	fields := handler.FieldErrors(err)
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Password is required", fields["password"])

	_, err = call[model.LoginForm, api.SessionResponse](e, context.Background(), "Login", &model.LoginForm{})
	require.Equal(t, codes.InvalidArgument, code(err))
	assert.Equal(t, "Email is required", handler.FieldErrors(err)["email"])
}

func TestLogoutKillsToken(t *testing.T) {
	e := setup(t)
	reg := e.register(t, "alice")
	ctx := withToken(reg.Token)

	_, err := call[api.Empty, api.Empty](e, ctx, "Logout", &api.Empty{})
	require.NoError(t, err)

	_, err = call[api.Empty, model.Profile](e, ctx, "Me", &api.Empty{})
	require.Equal(t, codes.Unauthenticated, code(err))
	assert.Equal(t, "session expired", status.Convert(err).Message())
}

func TestProtectedNeedsToken(t *testing.T) {
	e := setup(t)

	_, err := call[api.Empty, model.Profile](e, context.Background(), "Me", &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, code(err))

	_, err = call[api.Empty, model.Profile](e, withToken("garbage"), "Me", &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, code(err))

	// open methods work without one
	list, err := call[api.Empty, api.CounselorList](e, context.Background(), "ListCounselors", &api.Empty{})
	require.NoError(t, err)
	assert.Len(t, list.Counselors, 3)
}

func TestResolveRoute(t *testing.T) {
	e := setup(t)
	reg := e.register(t, "alice")

	guest, err := call[api.RouteRequest, route.Decision](e, context.Background(), "ResolveRoute", &api.RouteRequest{Path: "/user/dashboard"})
	require.NoError(t, err)
	assert.Equal(t, "/login", guest.Redirect)

	user, err := call[api.RouteRequest, route.Decision](e, withToken(reg.Token), "ResolveRoute", &api.RouteRequest{Path: "/admin/dashboard"})
	require.NoError(t, err)
	assert.Equal(t, "/user/dashboard", user.Redirect)

	_, err = call[api.RouteRequest, route.Decision](e, context.Background(), "ResolveRoute", &api.RouteRequest{})
	assert.Equal(t, codes.InvalidArgument, code(err))
}

func TestBookingFlow(t *testing.T) {
	e := setup(t)
	alice := withToken(e.register(t, "alice").Token)
	admin := withToken(e.adminLogin(t).Token)

	form := &model.AppointmentForm{
		Name: "Alice", Email: "alice@school.edu", Phone: "0917 123 4567",
		Date: "2025-06-12", Time: "9:00 AM", Type: "Career Guidance",
	}
	booked, err := call[model.AppointmentForm, api.AppointmentResponse](e, alice, "BookAppointment", form)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, booked.Appointment.Status)

	_, err = call[model.AppointmentForm, api.AppointmentResponse](e, alice, "BookAppointment", form)
	assert.Equal(t, codes.AlreadyExists, code(err))

	slots, err := call[api.SlotsRequest, api.SlotsResponse](e, alice, "GetAvailableSlots", &api.SlotsRequest{Date: "2025-06-12"})
	require.NoError(t, err)
	require.Len(t, slots.Slots, len(model.TimeSlots))
	assert.Equal(t, model.TimeSlots[0], slots.Slots[0].Time)
	assert.Equal(t, model.AppointmentTypes, slots.Types)
	for _, s := range slots.Slots {
		assert.Equal(t, s.Time != "9:00 AM", s.Available, s.Time)
	}

	_, err = call[api.AppointmentQuery, api.AppointmentList](e, alice, "ListAppointments", &api.AppointmentQuery{})
	assert.Equal(t, codes.PermissionDenied, code(err))

	all, err := call[api.AppointmentQuery, api.AppointmentList](e, admin, "ListAppointments", &api.AppointmentQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 1)

	_, err = call[api.StatusRequest, api.AppointmentResponse](e, admin, "UpdateAppointmentStatus", &api.StatusRequest{
		ID: booked.Appointment.ID, Status: model.StatusCompleted,
	})
	assert.Equal(t, codes.FailedPrecondition, code(err), "pending must be confirmed first")

	for _, st := range []model.AppointmentStatus{model.StatusConfirmed, model.StatusCompleted} {
		upd, err := call[api.StatusRequest, api.AppointmentResponse](e, admin, "UpdateAppointmentStatus", &api.StatusRequest{
			ID: booked.Appointment.ID, Status: st,
		})
		require.NoError(t, err)
		assert.Equal(t, st, upd.Appointment.Status)
	}

	_, err = call[api.IDRequest, api.AppointmentResponse](e, alice, "CancelAppointment", &api.IDRequest{ID: booked.Appointment.ID})
	assert.Equal(t, codes.FailedPrecondition, code(err))

	_, err = call[api.IDRequest, api.AppointmentResponse](e, alice, "CancelAppointment", &api.IDRequest{})
	assert.Equal(t, codes.InvalidArgument, code(err))

	mine, err := call[api.AppointmentQuery, api.AppointmentList](e, alice, "ListMyAppointments", &api.AppointmentQuery{})
	require.NoError(t, err)
	require.Len(t, mine.Appointments, 1)
	assert.Equal(t, model.StatusCompleted, mine.Appointments[0].Status)
}

func TestBookingValidationDetails(t *testing.T) {
	e := setup(t)
	alice := withToken(e.register(t, "alice").Token)

	_, err := call[model.AppointmentForm, api.AppointmentResponse](e, alice, "BookAppointment", &model.AppointmentForm{
		Date: "2025-06-01",
	})
	require.Equal(t, codes.InvalidArgument, code(err))
	fields := handler.FieldErrors(err)
	assert.Equal(t, "Date must be today or in the future", fields["date"])
	assert.Equal(t, "Time slot is required", fields["time"])
	assert.Equal(t, "Appointment type is required", fields["type"])
}

func TestAnnouncementsAndNotifications(t *testing.T) {
	e := setup(t)
	aliceResp := e.register(t, "alice")
	alice := withToken(aliceResp.Token)
	admin := withToken(e.adminLogin(t).Token)

	form := &model.AnnouncementForm{
		Title: "Wellness Week", Content: "Join us", Category: "Events", Priority: "high", ExpiresAt: "2025-07-01",
	}
	_, err := call[model.AnnouncementForm, api.AnnouncementResponse](e, alice, "CreateAnnouncement", form)
	assert.Equal(t, codes.PermissionDenied, code(err))

	created, err := call[model.AnnouncementForm, api.AnnouncementResponse](e, admin, "CreateAnnouncement", form)
	require.NoError(t, err)

	public, err := call[api.AnnouncementQuery, api.AnnouncementList](e, context.Background(), "ListAnnouncements", &api.AnnouncementQuery{Category: "all"})
	require.NoError(t, err)
	require.Len(t, public.Announcements, 1)
	assert.Equal(t, []string{"Events"}, public.Categories)

	upd := &api.AnnouncementUpdate{ID: created.Announcement.ID, AnnouncementForm: *form}
	upd.Title = "Wellness Week 2025"
	updated, err := call[api.AnnouncementUpdate, api.AnnouncementResponse](e, admin, "UpdateAnnouncement", upd)
	require.NoError(t, err)
	assert.Equal(t, "Wellness Week 2025", updated.Announcement.Title)

	notes, err := call[api.NotificationQuery, api.NotificationList](e, alice, "ListNotifications", &api.NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, 1, notes.Unread)

	read, err := call[api.IDRequest, api.NotificationResponse](e, alice, "MarkNotificationRead", &api.IDRequest{ID: notes.Notifications[0].ID})
	require.NoError(t, err)
	assert.True(t, read.Notification.Read)

	count, err := call[api.Empty, api.CountResponse](e, alice, "MarkAllNotificationsRead", &api.Empty{})
	require.NoError(t, err)
	assert.Zero(t, count.Count)

	_, err = call[api.IDRequest, api.Empty](e, alice, "DeleteNotification", &api.IDRequest{ID: "missing"})
	assert.Equal(t, codes.NotFound, code(err))

	_, err = call[api.IDRequest, api.Empty](e, admin, "DeleteAnnouncement", &api.IDRequest{ID: created.Announcement.ID})
	require.NoError(t, err)

	lists, err := call[api.Empty, api.AdminAnnouncementList](e, admin, "ListAllAnnouncements", &api.Empty{})
	require.NoError(t, err)
	assert.Empty(t, lists.Active)
	assert.Empty(t, lists.Expired)
}

func TestInquiryChatAndDashboards(t *testing.T) {
	e := setup(t)
	alice := withToken(e.register(t, "alice").Token)
	admin := withToken(e.adminLogin(t).Token)

	history, err := call[api.Empty, api.ChatHistory](e, alice, "GetChatHistory", &api.Empty{})
	require.NoError(t, err)
	require.Len(t, history.Messages, 1, "welcome message")

	sent, err := call[api.ChatSendRequest, api.ChatSendResponse](e, alice, "SendChatMessage", &api.ChatSendRequest{Text: "I need help"})
	require.NoError(t, err)
	assert.Equal(t, model.ChatAutoReply, sent.Reply.Text)

	_, err = call[service.InquiryInput, api.InquiryResponse](e, alice, "SubmitInquiry", &service.InquiryInput{Subject: "Hours"})
	assert.Equal(t, codes.InvalidArgument, code(err))

	list, err := call[api.InquiryQuery, api.InquiryList](e, admin, "ListInquiries", &api.InquiryQuery{Status: model.InquiryPending})
	require.NoError(t, err)
	require.Len(t, list.Inquiries, 1)

	resp, err := call[api.RespondRequest, api.InquiryResponse](e, admin, "RespondInquiry", &api.RespondRequest{
		ID: list.Inquiries[0].ID, Response: "We're here",
	})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryResponded, resp.Inquiry.Status)

	history, err = call[api.Empty, api.ChatHistory](e, alice, "GetChatHistory", &api.Empty{})
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "We're here", history.Messages[1].Text)

	user, err := call[api.Empty, service.UserStats](e, alice, "GetUserDashboard", &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, 1, user.UnreadNotifications)

	_, err = call[api.Empty, service.AdminStats](e, alice, "GetAdminDashboard", &api.Empty{})
	assert.Equal(t, codes.PermissionDenied, code(err))

	stats, err := call[api.Empty, service.AdminStats](e, admin, "GetAdminDashboard", &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalInquiries)
	assert.Zero(t, stats.PendingInquiries)
}

func TestRecordsAndFollowUps(t *testing.T) {
	e := setup(t)
	admin := withToken(e.adminLogin(t).Token)

	created, err := call[model.ClientRecordForm, api.RecordCreated](e, admin, "CreateClientRecord", &model.ClientRecordForm{
		ClientName: "Bob Cruz", SessionType: "Individual Counseling", SessionDate: "2025-06-09",
		Duration: "60 minutes", Counselor: "Dr. Erika Cruz", Notes: "Follow up on sleep",
		FollowUpRequired: true, FollowUpDate: "2025-06-16", Priority: "high",
	})
	require.NoError(t, err)
	require.NotNil(t, created.FollowUp)

	records, err := call[api.RecordQuery, api.RecordList](e, admin, "ListClientRecords", &api.RecordQuery{Search: "bob"})
	require.NoError(t, err)
	assert.Len(t, records.Records, 1)

	fus, err := call[api.FollowUpQuery, api.FollowUpList](e, admin, "ListFollowUps", &api.FollowUpQuery{Priority: model.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, fus.FollowUps, 1)
	assert.False(t, fus.FollowUps[0].Overdue)

	_, err = call[api.IDRequest, api.Empty](e, admin, "CompleteFollowUp", &api.IDRequest{ID: created.FollowUp.ID})
	require.NoError(t, err)
	_, err = call[api.IDRequest, api.Empty](e, admin, "CompleteFollowUp", &api.IDRequest{ID: created.FollowUp.ID})
	assert.Equal(t, codes.NotFound, code(err))
}

func TestHandlerWithoutInterceptor(t *testing.T) {
	e := setup(t)

	_, err := e.h.Me(context.Background(), &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, code(err))

	ctx := session.WithSession(context.Background(), model.Session{ID: "sid", User: model.Profile{ID: "u1", Role: model.RoleUser}})
	me, err := e.h.Me(ctx, &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)

	_, err = e.h.CancelAppointment(ctx, &api.IDRequest{ID: "missing"})
	assert.Equal(t, codes.NotFound, code(err))
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, handler.FieldErrors(errors.New("plain")))
	assert.Empty(t, handler.FieldErrors(status.Error(codes.NotFound, "not found")))
}
