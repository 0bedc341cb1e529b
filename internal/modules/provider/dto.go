package provider

type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	Age         int    `json:"age,omitempty" validate:"omitempty,gte=18,lte=100"`
	ServiceType string `json:"service_type,omitempty"`
}
