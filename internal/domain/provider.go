package domain

import "time"

// Provider is a registered service provider profile. One per user.
// ServiceType is the declared specialty as entered at registration
// ("Plumbing", "Appliance Repair"); matching keys are derived from it
// through the catalog package, never stored.
type Provider struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id" gorm:"uniqueIndex"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Location          string    `json:"location"`
	Age               int       `json:"age,omitempty" validate:"omitempty,gte=18,lte=100"`
	ServiceType       string    `json:"service_type" validate:"required"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
