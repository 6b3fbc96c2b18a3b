package models

// User is the account returned by the remote sync service
type User struct {
	ID    interface{} `json:"id,omitempty"` // Numeric or string depending on server
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
}

// AuthResponse is the body returned by login and register
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Credentials are the email/password pair used for login and the Basic auth fallback
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}
