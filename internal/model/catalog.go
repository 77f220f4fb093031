package model

// Appointment types offered by the booking form.
var AppointmentTypes = []string{
	"Individual Counseling",
	"Group Counseling",
	"Career Guidance",
	"Academic Counseling",
	"Family Counseling",
	"Crisis Intervention",
}

// TimeSlots are the bookable slots, in display order.
var TimeSlots = []string{
	"8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
}

const (
	AnonymousName  = "Anonymous"
	AnonymousEmail = "anonymous@therapath.com"
	AnonymousPhone = "N/A"

	CounselorName = "TheraPath Counselor"
)
