package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = 72 * time.Hour

// IssueToken mints a signed session token carrying the user id and
// pricing tier claims consumed by middleware.RequireAuth.
func IssueToken(userID string, tier pricing.Tier) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"tier":    string(tier),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
