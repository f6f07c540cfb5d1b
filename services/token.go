package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// FederatedClaims is the assertion minted by the identity provider for
// federated sign-in. The email claim must match the directory record;
// the password check is skipped only after this verifies.
type FederatedClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// VerifyFederatedAssertion checks signature and expiry and returns the
// asserted email.
func VerifyFederatedAssertion(tokenString string) (string, error) {
	if utils.FederatedSecretKey == "" {
		return "", fmt.Errorf("federated login is not configured")
	}

	claims := &FederatedClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.FederatedSecretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid federated assertion: %w", err)
	}
	if !token.Valid || claims.Email == "" {
		return "", fmt.Errorf("invalid federated assertion")
	}

	return claims.Email, nil
}
