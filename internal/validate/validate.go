// Package validate holds the pure field and form checks run before any
// mutation. Form validators never short-circuit: every field is checked and
// at most one message is reported per field.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"therapath-portal/internal/model"
)

const DateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s\-()]+$`)
)

type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// Err returns nil for a valid result, a *model.ValidationError otherwise.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return model.NewValidationError(r.Errors)
}

func result(errs map[string]string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func Email(s string) bool {
	return emailRe.MatchString(s)
}

func Phone(s string) bool {
	if !phoneRe.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

func Password(s string) bool {
	return len(s) >= 6
}

func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ParseDate accepts YYYY-MM-DD, optionally followed by a time part, and
// returns local midnight of that day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Date reports whether s is today or later.
func Date(s string, now time.Time) bool {
	d, ok := ParseDate(s)
	if !ok {
		return false
	}
	return !d.Before(midnight(now))
}

// ParseSlot turns "h:mm AM" into hours and minutes on a 24h clock.
func ParseSlot(slot string) (int, int, bool) {
	clock, period, ok := strings.Cut(strings.TrimSpace(slot), " ")
	if !ok {
		return 0, 0, false
	}
	hs, ms, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 1 || h > 12 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	switch strings.ToUpper(period) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	default:
		return 0, 0, false
	}
	return h, m, true
}

// SlotTime combines a date and a slot label into a local timestamp.
func SlotTime(date, slot string) (time.Time, bool) {
	d, ok := ParseDate(date)
	if !ok {
		return time.Time{}, false
	}
	h, m, ok := ParseSlot(slot)
	if !ok {
		return time.Time{}, false
	}
	return d.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

// TimeInPast is true only when date is today and the slot has already begun.
func TimeInPast(date, slot string, now time.Time) bool {
	if date == "" || slot == "" {
		return false
	}
	d, ok := ParseDate(date)
	if !ok || !d.Equal(midnight(now)) {
		return false
	}
	at, ok := SlotTime(date, slot)
	if !ok {
		return false
	}
	return at.Before(now)
}

func checkEmail(errs map[string]string, email string) {
	if !Required(email) {
		errs["email"] = "Email is required"
	} else if !Email(email) {
		errs["email"] = "Invalid email format"
	}
}

func checkPhone(errs map[string]string, phone string) {
	if !Required(phone) {
		errs["phone"] = "Phone number is required"
	} else if !Phone(phone) {
		errs["phone"] = "Invalid phone number"
	}
}

func AppointmentForm(f model.AppointmentForm, now time.Time) Result {
	errs := map[string]string{}

	if !f.IsAnonymous {
		if !Required(f.Name) {
			errs["name"] = "Name is required"
		}
		checkEmail(errs, f.Email)
		checkPhone(errs, f.Phone)
	}

	if !Required(f.Date) {
		errs["date"] = "Date is required"
	} else if !Date(f.Date, now) {
		errs["date"] = "Date must be today or in the future"
	}

	if !Required(f.Time) {
		errs["time"] = "Time slot is required"
	} else if TimeInPast(f.Date, f.Time, now) {
		errs["time"] = "Selected time has already passed"
	}

	if !Required(f.Type) {
		errs["type"] = "Appointment type is required"
	}

	return result(errs)
}

func LoginForm(f model.LoginForm) Result {
	errs := map[string]string{}
	checkEmail(errs, f.Email)
	if !Required(f.Password) {
		errs["password"] = "Password is required"
	}
	return result(errs)
}

func RegisterForm(f model.RegisterForm) Result {
	errs := map[string]string{}

	if !Required(f.Name) {
		errs["name"] = "Name is required"
	}
	checkEmail(errs, f.Email)

	if !Required(f.Password) {
		errs["password"] = "Password is required"
	} else if !Password(f.Password) {
		errs["password"] = "Password must be at least 6 characters"
	}

	if !Required(f.ConfirmPassword) {
		errs["confirmPassword"] = "Please confirm your password"
	} else if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	checkPhone(errs, f.Phone)
	return result(errs)
}

func AnnouncementForm(f model.AnnouncementForm, now time.Time) Result {
	errs := map[string]string{}

	if !Required(f.Title) {
		errs["title"] = "Title is required"
	}
	if !Required(f.Content) {
		errs["content"] = "Content is required"
	}
	if !Required(f.Category) {
		errs["category"] = "Category is required"
	}
	if !Required(f.Priority) {
		errs["priority"] = "Priority is required"
	} else if !model.Priority(f.Priority).Valid() {
		errs["priority"] = "Priority must be low, medium or high"
	}
	if !Required(f.ExpiresAt) {
		errs["expiresAt"] = "Expiration date is required"
	} else if !Date(f.ExpiresAt, now) {
		errs["expiresAt"] = "Expiration date must be in the future"
	}

	return result(errs)
}

func ClientRecordForm(f model.ClientRecordForm) Result {
	errs := map[string]string{}

	if !Required(f.SessionType) {
		errs["sessionType"] = "Session type is required"
	}
	if !Required(f.Duration) {
		errs["duration"] = "Duration is required"
	}
	if !Required(f.Counselor) {
		errs["counselor"] = "Counselor name is required"
	}
	if !Required(f.Notes) {
		errs["notes"] = "Session notes are required"
	}
	if f.FollowUpRequired && !Required(f.FollowUpDate) {
		errs["followUpDate"] = "Follow-up date is required when follow-up is needed"
	}

	return result(errs)
}
