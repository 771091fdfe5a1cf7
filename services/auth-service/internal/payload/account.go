package payload

import (
	"strings"
	"time"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
)

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=50"`
}

// Normalize trims the supplied names. A name that trims to empty is left
// untouched by the update.
func (r *UpdateProfileRequest) Normalize() {
	for _, name := range []*string{r.FirstName, r.LastName} {
		if name != nil {
			*name = strings.TrimSpace(*name)
		}
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max_bytes=72"`
}

type DashboardResponse struct {
	Success bool      `json:"success"`
	Data    Dashboard `json:"data"`
}

type Dashboard struct {
	User          DashboardUser  `json:"user"`
	Stats         DashboardStats `json:"stats"`
	Notifications []Notification `json:"notifications"`
}

type DashboardUser struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	MemberSince time.Time  `json:"memberSince"`
	LastLogin   *time.Time `json:"lastLogin"`
}

type DashboardStats struct {
	PrayersCompleted int `json:"prayersCompleted"`
	HolyBookProgress int `json:"holyBookProgress"`
	HadithsRead      int `json:"hadithsRead"`
}

type Notification struct {
	ID      int       `json:"id"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
}

// NewDashboard builds the dashboard for u. Reading statistics are not
// tracked yet and are reported as zero.
func NewDashboard(u *model.User, now time.Time) Dashboard {
	return Dashboard{
		User: DashboardUser{
			Name:        u.FullName(),
			Email:       u.Email,
			MemberSince: u.CreatedAt,
			LastLogin:   u.LastLogin,
		},
		Notifications: []Notification{{
			ID:      1,
			Message: "Welcome to the Islamic App!",
			Type:    "info",
			Date:    now,
		}},
	}
}
