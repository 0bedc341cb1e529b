package request

import "homeservices/internal/domain"

type CreateRequest struct {
	Service     string `json:"service" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
}

// Dashboard is the provider's view of the request pool: matcher output
// partitioned by status, newest first.
type Dashboard struct {
	ServiceType    string                  `json:"service_type"`
	MatchSet       []string                `json:"provider_services"`
	Pending        []domain.ServiceRequest `json:"pending_requests"`
	Accepted       []domain.ServiceRequest `json:"accepted_requests"`
	Completed      []domain.ServiceRequest `json:"completed_requests"`
	TotalPending   int                     `json:"total_pending"`
	TotalAccepted  int                     `json:"total_accepted"`
	TotalCompleted int                     `json:"total_completed"`
}
