package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "bookkeeper/internal/errors"
)

const (
	issuer     = "bookkeeper-api"
	subjectKey = "subject"
	roleKey    = "role"
)

// JWTClaims represents the claims in an operator access token.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 access token for subject valid for ttl.
func GenerateAccessToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// HashOperatorPassword returns the bcrypt hash stored in OPERATOR_PASSWORD_HASH.
func HashOperatorPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hashed), nil
}

// VerifyOperatorPassword checks password against a bcrypt hash.
func VerifyOperatorPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ParseAccessToken validates a token string and returns its claims.
func ParseAccessToken(secret, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token has no subject")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and sets the subject and role in
// the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := ParseAccessToken(secret, parts[1])
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// Subject returns the authenticated subject, or "" for anonymous requests.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
