// file: model/request.go

package model

// SignupRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token being exchanged for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest carries the refresh token being invalidated.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest defines the payload for updating the caller's profile.
type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"omitempty,max=100"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
// Using a dedicated struct instead of an inline anonymous struct in the handler
// improves code clarity, reusability, and compatibility with tooling like swag.
type UpdateUserRoleRequest struct {
	UserID int  `json:"user_id" validate:"required"`
	Role   Role `json:"role" validate:"required,oneof=admin user moderator"`
}

// CreateCropRequest defines the payload for adding a crop to the catalog.
type CreateCropRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Variety        string `json:"variety" validate:"omitempty,max=100"`
	Season         string `json:"season" validate:"omitempty,oneof=spring summer autumn winter"`
	DaysToMaturity int    `json:"days_to_maturity" validate:"required,gt=0"`
}

// CreateCaseRequest defines the payload for creating a crop case.
type CreateCaseRequest struct {
	CropID       int     `json:"crop_id" validate:"required"`
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	AreaHectares float64 `json:"area_hectares" validate:"required,gt=0"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	Notes        string  `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateCaseRequest defines the payload for updating a crop case.
type UpdateCaseRequest struct {
	Title  string     `json:"title" validate:"omitempty,min=3,max=200"`
	Status CaseStatus `json:"status" validate:"omitempty,oneof=draft active completed"`
	Notes  string     `json:"notes" validate:"omitempty,max=2000"`
}

// AuthResponse is the body of successful signup and login responses.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
