package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ally/internal/config"
	apperrors "ally/internal/errors"
	"ally/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// UserResolver is the subset of the user service the auth middleware needs.
// Tokens are resolved to database users on every request so deactivated
// accounts are rejected immediately.
type UserResolver interface {
	GetActiveUserByID(id uint) (*models.User, error)
	FindOrCreateSupabaseUser(supabaseID, email, firstName, lastName string) (*models.User, error)
}

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in tokens issued by this API.
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   int    `json:"role"`
	jwt.RegisteredClaims
}

// supabaseClaims represents the subset of a Supabase access token this API
// consumes. Supabase signs user tokens with the project JWT secret (HS256).
type supabaseClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// GenerateToken generates a signed JWT for a user.
func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "ally-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// parseLocalToken parses and validates a token issued by this API.
func parseLocalToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// parseSupabaseToken parses and validates a Supabase access token using the
// project JWT secret. Returns an error when the bridge is not configured.
func parseSupabaseToken(tokenString string) (*supabaseClaims, error) {
	secret := config.Get().SupabaseJWTSecret
	if secret == "" {
		return nil, fmt.Errorf("supabase bridge not configured")
	}

	claims := &supabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid supabase token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("supabase token missing subject")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to a local user. Locally issued
// tokens are tried first; Supabase access tokens are bridged to the local
// user table, creating the user on first login.
func Authenticate(tokenString string, users UserResolver) (*models.User, error) {
	if claims, err := parseLocalToken(tokenString); err == nil {
		user, err := users.GetActiveUserByID(claims.UserID)
		if err == nil {
			return user, nil
		}
	}

	claims, err := parseSupabaseToken(tokenString)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := users.FindOrCreateSupabaseUser(
		claims.Subject,
		claims.Email,
		claims.UserMetadata.FirstName,
		claims.UserMetadata.LastName,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "No token provided")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format")
	}
	return parts[1], nil
}

// AuthMiddleware verifies the bearer token and sets the user in the context.
func AuthMiddleware(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			abortWithAppError(c, err)
			return
		}

		user, err := Authenticate(token, users)
		if err != nil {
			abortWithAppError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// AdminMiddleware rejects requests from non-admin users. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists || role.(int) != models.RoleAdmin {
			abortWithAppError(c, apperrors.ErrAdminRequired)
			return
		}
		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.ErrInternalServer
	}
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
