package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"github.com/retail/backoffice/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars!!",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func issueToken(svc *auth.JWTService, role string) (string, uuid.UUID) {
	userID := uuid.New()
	tok, err := svc.GenerateToken(auth.GenerateTokenInput{UserID: userID, Username: "tester", Role: role})
	if err != nil {
		panic(err)
	}
	return tok.AccessToken, userID
}
