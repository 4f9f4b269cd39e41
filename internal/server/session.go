package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionIssuer   = "yatube"
	sessionAudience = "yatube-web"

	localsUser       = "user"
	localsUserID     = "userID"
	localsSessionJTI = "sessionJTI"
	localsSessionExp = "sessionExp"
)

// sessionClaims is the payload of the session cookie.
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// newSessionToken signs a session for user that expires after the configured TTL.
func (s *Server) newSessionToken(user *models.User) (string, time.Time, error) {
	if s.config.SecretKey == "" {
		return "", time.Time{}, errors.New("SECRET_KEY not configured")
	}

	now := time.Now()
	expires := now.Add(s.config.SessionTTL())
	claims := sessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expires, nil
}

func (s *Server) parseSessionToken(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// login sets the session cookie for user.
func (s *Server) login(c *fiber.Ctx, user *models.User) error {
	token, expires, err := s.newSessionToken(user)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// logout revokes the current session until its natural expiry and clears the cookie.
func (s *Server) logout(c *fiber.Ctx) {
	if jti, ok := c.Locals(localsSessionJTI).(string); ok {
		exp, _ := c.Locals(localsSessionExp).(time.Time)
		if err := cache.RevokeSession(c.UserContext(), jti, time.Until(exp)); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session", "error", err.Error())
		}
	}
	c.ClearCookie(s.config.SessionCookieName)
	c.Locals(localsUser, nil)
	c.Locals(localsUserID, nil)
}

// Session resolves the session cookie into the current user. Invalid,
// expired or revoked sessions are dropped and the request continues anonymously.
func (s *Server) Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(s.config.SessionCookieName)
		if raw == "" {
			return c.Next()
		}

		claims, err := s.parseSessionToken(raw)
		if err != nil {
			c.ClearCookie(s.config.SessionCookieName)
			return c.Next()
		}
		if cache.IsSessionRevoked(c.UserContext(), claims.ID) {
			c.ClearCookie(s.config.SessionCookieName)
			return c.Next()
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.ClearCookie(s.config.SessionCookieName)
			return c.Next()
		}
		user, err := s.userService.GetByID(c.UserContext(), uint(userID))
		if err != nil {
			if models.IsNotFound(err) {
				c.ClearCookie(s.config.SessionCookieName)
				return c.Next()
			}
			return err
		}

		c.Locals(localsUser, user)
		c.Locals(localsUserID, user.ID)
		c.Locals(localsSessionJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(localsSessionExp, claims.ExpiresAt.Time)
		}
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID))
		return c.Next()
	}
}

// currentUser returns the logged-in user or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

// LoginRequired sends anonymous visitors to the login page with a next parameter.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return s.redirectToLogin(c)
		}
		return c.Next()
	}
}
