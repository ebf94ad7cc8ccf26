package models

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type RegisterRequest struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Profile *StudentProfile `json:"profile,omitempty"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	Age             *int    `json:"age,omitempty"`
	ClassName       *string `json:"class_name,omitempty"`
	Section         *string `json:"section,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
}

type UpdateContactsRequest struct {
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
