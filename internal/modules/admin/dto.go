package admin

// StatisticsResponse is the admin overview of the request pool.
type StatisticsResponse struct {
	TotalRequests     int64 `json:"total_requests"`
	PendingRequests   int64 `json:"pending_requests"`
	ApprovedRequests  int64 `json:"approved_requests"`
	RejectedRequests  int64 `json:"rejected_requests"`
	CompletedRequests int64 `json:"completed_requests"`
	CancelledRequests int64 `json:"cancelled_requests"`
	TotalProviders    int64 `json:"total_providers"`
	VerifiedProviders int64 `json:"verified_providers"`
}
