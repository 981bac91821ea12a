package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SellerID   uuid.UUID
	SellerName string
	JTI        string
}

// AccessTokenClaims represents the typed JWT presented by sellers.
type AccessTokenClaims struct {
	SellerID   uuid.UUID `json:"seller_id"`
	SellerName string    `json:"seller_name,omitempty"`
	jwt.RegisteredClaims
}
