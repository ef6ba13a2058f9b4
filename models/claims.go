package models

import "github.com/golang-jwt/jwt/v5"

// AppClaims are the JWT claims attached to every authenticated request.
// Sub carries the user id; Role is "user" or "admin".
type AppClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Sub   string `json:"sub"`
	Role  string `json:"role"`
}

const RoleAdmin = "admin"

func (c *AppClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
