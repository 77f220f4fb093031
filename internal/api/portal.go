// Package api describes the therapath.v1.PortalService gRPC surface: its
// messages, the JSON codec they travel in and the service descriptor.
package api

import (
	"context"

	"google.golang.org/grpc"

	"therapath-portal/internal/model"
	"therapath-portal/internal/route"
	"therapath-portal/internal/service"
)

const ServiceName = "therapath.v1.PortalService"

// FullMethod returns the gRPC path of a PortalService method.
func FullMethod(name string) string { return "/" + ServiceName + "/" + name }

type PortalServer interface {
	Register(context.Context, *model.RegisterForm) (*SessionResponse, error)
	Login(context.Context, *model.LoginForm) (*SessionResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	Me(context.Context, *Empty) (*model.Profile, error)
	ResolveRoute(context.Context, *RouteRequest) (*route.Decision, error)

	BookAppointment(context.Context, *model.AppointmentForm) (*AppointmentResponse, error)
	ListMyAppointments(context.Context, *AppointmentQuery) (*AppointmentList, error)
	ListAppointments(context.Context, *AppointmentQuery) (*AppointmentList, error)
	UpdateAppointmentStatus(context.Context, *StatusRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *IDRequest) (*AppointmentResponse, error)
	GetCalendar(context.Context, *CalendarRequest) (*CalendarResponse, error)
	GetAvailableSlots(context.Context, *SlotsRequest) (*SlotsResponse, error)

	ListAnnouncements(context.Context, *AnnouncementQuery) (*AnnouncementList, error)
	ListAllAnnouncements(context.Context, *Empty) (*AdminAnnouncementList, error)
	CreateAnnouncement(context.Context, *model.AnnouncementForm) (*AnnouncementResponse, error)
	UpdateAnnouncement(context.Context, *AnnouncementUpdate) (*AnnouncementResponse, error)
	DeleteAnnouncement(context.Context, *IDRequest) (*Empty, error)

	SubmitInquiry(context.Context, *service.InquiryInput) (*InquiryResponse, error)
	ListInquiries(context.Context, *InquiryQuery) (*InquiryList, error)
	RespondInquiry(context.Context, *RespondRequest) (*InquiryResponse, error)

	ListNotifications(context.Context, *NotificationQuery) (*NotificationList, error)
	MarkNotificationRead(context.Context, *IDRequest) (*NotificationResponse, error)
	MarkAllNotificationsRead(context.Context, *Empty) (*CountResponse, error)
	DeleteNotification(context.Context, *IDRequest) (*Empty, error)

	ListClientRecords(context.Context, *RecordQuery) (*RecordList, error)
	CreateClientRecord(context.Context, *model.ClientRecordForm) (*RecordCreated, error)
	ListFollowUps(context.Context, *FollowUpQuery) (*FollowUpList, error)
	CompleteFollowUp(context.Context, *IDRequest) (*Empty, error)
	ListCounselors(context.Context, *Empty) (*CounselorList, error)

	GetUserDashboard(context.Context, *Empty) (*service.UserStats, error)
	GetAdminDashboard(context.Context, *Empty) (*service.AdminStats, error)

	GetChatHistory(context.Context, *Empty) (*ChatHistory, error)
	SendChatMessage(context.Context, *ChatSendRequest) (*ChatSendResponse, error)
}

func unary[Req, Resp any](name string, call func(PortalServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PortalServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PortalServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortalServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", PortalServer.Register),
		unary("Login", PortalServer.Login),
		unary("Logout", PortalServer.Logout),
		unary("Me", PortalServer.Me),
		unary("ResolveRoute", PortalServer.ResolveRoute),

		unary("BookAppointment", PortalServer.BookAppointment),
		unary("ListMyAppointments", PortalServer.ListMyAppointments),
		unary("ListAppointments", PortalServer.ListAppointments),
		unary("UpdateAppointmentStatus", PortalServer.UpdateAppointmentStatus),
		unary("CancelAppointment", PortalServer.CancelAppointment),
		unary("GetCalendar", PortalServer.GetCalendar),
		unary("GetAvailableSlots", PortalServer.GetAvailableSlots),

		unary("ListAnnouncements", PortalServer.ListAnnouncements),
		unary("ListAllAnnouncements", PortalServer.ListAllAnnouncements),
		unary("CreateAnnouncement", PortalServer.CreateAnnouncement),
		unary("UpdateAnnouncement", PortalServer.UpdateAnnouncement),
		unary("DeleteAnnouncement", PortalServer.DeleteAnnouncement),

		unary("SubmitInquiry", PortalServer.SubmitInquiry),
		unary("ListInquiries", PortalServer.ListInquiries),
		unary("RespondInquiry", PortalServer.RespondInquiry),

		unary("ListNotifications", PortalServer.ListNotifications),
		unary("MarkNotificationRead", PortalServer.MarkNotificationRead),
		unary("MarkAllNotificationsRead", PortalServer.MarkAllNotificationsRead),
		unary("DeleteNotification", PortalServer.DeleteNotification),

		unary("ListClientRecords", PortalServer.ListClientRecords),
		unary("CreateClientRecord", PortalServer.CreateClientRecord),
		unary("ListFollowUps", PortalServer.ListFollowUps),
		unary("CompleteFollowUp", PortalServer.CompleteFollowUp),
		unary("ListCounselors", PortalServer.ListCounselors),

		unary("GetUserDashboard", PortalServer.GetUserDashboard),
		unary("GetAdminDashboard", PortalServer.GetAdminDashboard),

		unary("GetChatHistory", PortalServer.GetChatHistory),
		unary("SendChatMessage", PortalServer.SendChatMessage),
	},
	Metadata: "therapath/v1/portal.proto",
}

func RegisterPortalServer(s grpc.ServiceRegistrar, srv PortalServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Invoke calls a PortalService method over cc with the JSON codec.
func Invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
