package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"therapath-portal/internal/auth"
	"therapath-portal/internal/model"
)

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

var defaultCounselors = []model.Counselor{
	{
		Name:           "Dr. Aliyah Felipe",
		Email:          "aliyah.felipe@therapath.com",
		Contact:        "+63 917 555 0101",
		Specialization: "Academic Counseling",
		Credentials:    "Ph.D. in Counseling Psychology",
		AvailableDays:  []string{"Monday", "Wednesday", "Friday"},
		AvailableTimes: "8:00 AM - 4:00 PM",
		Image:          "/320x400.jpeg",
	},
	{
		Name:           "Dr. Erika Cruz",
		Email:          "erika.cruz@therapath.com",
		Contact:        "+63 917 555 0102",
		Specialization: "Career Guidance",
		Credentials:    "M.A. in Career Development",
		AvailableDays:  []string{"Tuesday", "Thursday"},
		AvailableTimes: "9:00 AM - 3:00 PM",
		Image:          "/OIP (1).jpg",
	},
	{
		Name:           "Dr. Ariel Ocampo",
		Email:          "ariel.ocampo@therapath.com",
		Contact:        "+63 917 555 0103",
		Specialization: "Personal Counseling",
		Credentials:    "Psy.D. in Clinical Psychology",
		AvailableDays:  []string{"Monday", "Tuesday", "Thursday"},
		AvailableTimes: "10:00 AM - 4:00 PM",
		Image:          "/Bernardo_Fellow2019.jpg",
	},
}

// Seed creates the configured admin account and the counselor roster when
// they are missing. It is safe to run on every start.
func Seed(ctx context.Context, st *Store, admin AdminSeed) error {
	if admin.Email != "" && admin.Password != "" {
		_, err := st.Users.ByEmail(ctx, admin.Email)
		switch {
		case errors.Is(err, model.ErrNotFound):
			hash, err := auth.HashPassword(admin.Password)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			name := admin.Name
			if name == "" {
				name = "Administrator"
			}
			u := model.User{
				ID:        uuid.New().String(),
				Name:      name,
				Email:     admin.Email,
				Password:  hash,
				Role:      model.RoleAdmin,
				CreatedAt: time.Now(),
			}
			if err := st.Users.Add(ctx, u); err != nil && !errors.Is(err, model.ErrDuplicate) {
				return fmt.Errorf("create admin: %w", err)
			}
		case err != nil:
			return fmt.Errorf("look up admin: %w", err)
		}
	}

	existing, err := st.Counselors.List(ctx)
	if err != nil {
		return fmt.Errorf("list counselors: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range defaultCounselors {
		c.ID = uuid.New().String()
		c.AvailableDays = append([]string(nil), c.AvailableDays...)
		if err := st.Counselors.Add(ctx, c); err != nil {
			return fmt.Errorf("add counselor %s: %w", c.Name, err)
		}
	}
	return nil
}
