package dtos

type HealthCheckResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
