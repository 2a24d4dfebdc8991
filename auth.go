package main

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// The admission gate guards every mutating or privileged endpoint. There is
// no session state: each request presents either the shared Basic credential
// or a bearer token previously issued from it, and is verified independently.

// expectedBasic precomputes the exact Authorization header value the gate
// accepts, so verification is a single constant-time comparison against the
// caller-supplied header.
func expectedBasic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// requireAdmin verifies the request credential. On failure it writes the 401
// response with a Basic challenge (so interactive clients re-prompt) and
// returns false; handlers must return immediately in that case.
func (s *server) requireAdmin(c fiber.Ctx) bool {
	auth := c.Get("Authorization")

	if strings.HasPrefix(auth, "Bearer ") {
		err := s.verifyAdminToken(strings.TrimPrefix(auth, "Bearer "))
		if err == nil {
			return true
		}
		log.Printf("[auth] bearer token rejected: %v", err)
	} else if subtle.ConstantTimeCompare([]byte(auth), []byte(s.basicCredential)) == 1 {
		return true
	}

	c.Set("WWW-Authenticate", `Basic realm="Admin"`)
	_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
	return false
}

// createAdminToken issues a short-lived HS256 token signed with the admin
// secret. The admin UI exchanges the password for one of these once, instead
// of keeping the raw password around for every later request.
func (s *server) createAdminToken() (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.cfg.AdminUser,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.TokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AdminPass))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// verifyAdminToken parses and validates an admin bearer token.
func (s *server) verifyAdminToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.AdminPass), nil
	})
	if err != nil {
		return err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return fmt.Errorf("missing subject in token: %w", err)
	}
	if sub != s.cfg.AdminUser {
		return fmt.Errorf("unexpected subject %q", sub)
	}

	return nil
}

// handleAuthToken exchanges a valid credential for a bearer token.
// GET /auth/token
func (s *server) handleAuthToken(c fiber.Ctx) error {
	if !s.requireAdmin(c) {
		return nil
	}

	token, err := s.createAdminToken()
	if err != nil {
		log.Printf("[auth] token creation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create token",
		})
	}

	log.Println("[auth] issued admin token")
	return c.JSON(fiber.Map{
		"token": token,
	})
}

// handleAdminCheck lets the admin UI probe a credential without side effects.
// GET /admin-check
func (s *server) handleAdminCheck(c fiber.Ctx) error {
	if !s.requireAdmin(c) {
		return nil
	}

	return c.JSON(fiber.Map{
		"authenticated": true,
	})
}
