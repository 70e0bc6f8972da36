package hub

import (
	"github.com/campolink/campolink/internal/auth/jwt"
)

// JWTVerifier adapts the JWT service to the hub's TokenVerifier
type JWTVerifier struct {
	service *jwt.Service
}

var _ TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier backed by the given JWT service
func NewJWTVerifier(service *jwt.Service) *JWTVerifier {
	return &JWTVerifier{service: service}
}

// Verify validates the token and maps its claims to a Subject
func (v *JWTVerifier) Verify(token string) (*Subject, error) {
	claims, err := v.service.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &Subject{
		UserID:   claims.UserID,
		Username: claims.Username,
		Rol:      claims.Rol,
	}, nil
}
