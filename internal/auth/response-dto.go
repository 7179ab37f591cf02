package auth

import "airbook/internal/users"

// represents the authentication response; the token fields sit at the top
// level so clients can decode the data straight into a token pair
type AuthResponse struct {
	User         users.UserResponse `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	ExpiresIn    int64              `json:"expires_in"`
}
