package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/quiz-analytics-service/internal/config"
	"github.com/SAP-F-2025/quiz-analytics-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "user_id"

	devUserIDHeader   = "X-User-ID"
	devUserRoleHeader = "X-User-Role"
)

var errMissingToken = errors.New("missing bearer token")

// TokenVerifier turns a bearer token into the calling user
type TokenVerifier interface {
	Verify(token string) (models.User, error)
}

type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.AuthConfig) *CasdoorVerifier {
	return &CasdoorVerifier{
		client: casdoorsdk.NewClient(cfg.Endpoint, cfg.ClientID, cfg.ClientSecret, cfg.Certificate, cfg.Organization, cfg.Application),
	}
}

func (v *CasdoorVerifier) Verify(token string) (models.User, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return models.User{}, err
	}
	return UserFromClaims(claims), nil
}

// UserFromClaims maps Casdoor claims onto a user; admins win over role names and tags
func UserFromClaims(claims *casdoorsdk.Claims) models.User {
	id := claims.User.Id
	if id == "" {
		id = claims.RegisteredClaims.Subject
	}
	name := claims.User.DisplayName
	if name == "" {
		name = claims.User.Name
	}

	role := models.RoleLearner
	switch {
	case claims.User.IsAdmin:
		role = models.RoleAdmin
	case isEducatorLabel(claims.User.Tag) || isEducatorLabel(claims.User.Type):
		role = models.RoleEducator
	default:
		for _, r := range claims.User.Roles {
			if r != nil && isEducatorLabel(r.Name) {
				role = models.RoleEducator
				break
			}
		}
	}

	return models.User{ID: id, FullName: name, Email: claims.User.Email, Role: role}
}

func isEducatorLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "educator", "teacher", "instructor":
		return true
	}
	return false
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(token), nil
}

func setUser(c *gin.Context, user models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}
		user, err := verifier.Verify(token)
		if err != nil || user.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token"})
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// DevAuthMiddleware trusts X-User-ID and X-User-Role. Never enable it in production.
func DevAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(devUserIDHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			return
		}
		role := models.UserRole(strings.ToLower(c.GetHeader(devUserRoleHeader)))
		switch role {
		case models.RoleAdmin, models.RoleEducator, models.RoleLearner:
		default:
			role = models.RoleEducator
		}
		setUser(c, models.User{ID: id, Role: role})
		c.Next()
	}
}
