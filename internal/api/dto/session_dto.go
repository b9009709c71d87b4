package dto

// LoginRequest payload for staff login.
type LoginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// IdentityResponse is the public view of an identity. The secret hash never
// leaves the service.
type IdentityResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}
