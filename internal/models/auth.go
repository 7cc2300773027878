package models

// RoleAdmin is the user role allowed into the admin area
const RoleAdmin = "admin"

// User is the profile returned alongside an access token
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

// AuthSession is the persisted login record
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// IsAdmin reports whether the logged-in user has the admin role
func (a *AuthSession) IsAdmin() bool {
	return a != nil && a.User.Role == RoleAdmin
}

// LoginRequest is the body accepted by the BFF login endpoint
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is the body accepted by the BFF register endpoint
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is the backend's reply to POST /auth/login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}
