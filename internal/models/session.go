package models

// SessionUser is the identity projected into every session.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the externally visible authentication context of a request.
type Session struct {
	User SessionUser `json:"user"`
}
