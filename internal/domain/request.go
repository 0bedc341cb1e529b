package domain

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition can leave the status.
func (s RequestStatus) Terminal() bool {
	return s == RequestRejected || s == RequestCompleted || s == RequestCancelled
}

// ServiceRequest is a customer's request for a home service.
// Provider is non-nil only while status is approved or completed;
// the lifecycle guards in modules/request keep that invariant.
type ServiceRequest struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id" validate:"required"`
	Service     string        `json:"service" validate:"required"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location"`
	Status      RequestStatus `json:"status"`
	ProviderID  *int64        `json:"provider_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Provider *Provider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}
