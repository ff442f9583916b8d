package auth

import "palette-wardrobe/stylist/internal/constants"

// UserClaims is what authenticated middleware leaves in the request context.
type UserClaims interface {
	Subject() string
	Role() string
	TokenID() string
}

// AdminClaims are decoded from an admin bearer token.
type AdminClaims struct {
	SubjectValue string
	RoleValue    constants.Role
	TokenIDValue string
}

func (c *AdminClaims) Subject() string { return c.SubjectValue }
func (c *AdminClaims) Role() string    { return string(c.RoleValue) }
func (c *AdminClaims) TokenID() string { return c.TokenIDValue }

func (c *AdminClaims) IsAdmin() bool { return c.RoleValue == constants.RoleAdmin }
