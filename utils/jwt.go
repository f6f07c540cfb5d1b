package utils

import (
	"log"
	"os"
)

// FederatedSecretKey verifies login assertions minted by the identity
// provider that fronts federated ("social") sign-in. Empty means federated
// login is disabled and every login takes the password path.
var FederatedSecretKey string

func InitJWT() {
	if os.Getenv("GO_ENV") == "test" && os.Getenv("FEDERATED_SECRET_KEY") == "" {
		os.Setenv("FEDERATED_SECRET_KEY", "test_secret_key")
	}

	FederatedSecretKey = os.Getenv("FEDERATED_SECRET_KEY")
	if FederatedSecretKey == "" {
		log.Println("FEDERATED_SECRET_KEY not set; federated login disabled")
	}
}
