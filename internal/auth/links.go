// Package auth signs and verifies the one-purpose tokens embedded in
// notification emails.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PurposeUnsubscribe marks tokens that may only disable email notifications.
const PurposeUnsubscribe = "unsubscribe"

// ErrLinksDisabled is returned when no signing secret is configured.
var ErrLinksDisabled = errors.New("signed links disabled")

// LinkSigner issues HS256 tokens for links in emails.
type LinkSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	appURL string
	now    func() time.Time
}

// NewLinkSigner creates a LinkSigner. secret must be at least 32 characters
// for HS256; an empty secret disables link signing.
func NewLinkSigner(secret, issuer string, ttl time.Duration, appURL string) *LinkSigner {
	return &LinkSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		appURL: strings.TrimRight(appURL, "/"),
		now:    time.Now,
	}
}

// Enabled reports whether the signer has a secret.
func (s *LinkSigner) Enabled() bool { return len(s.secret) > 0 }

// linkClaims extends standard JWT claims with the token purpose.
type linkClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// Sign creates an unsubscribe token for userID.
func (s *LinkSigner) Sign(userID uuid.UUID) (string, error) {
	if !s.Enabled() {
		return "", ErrLinksDisabled
	}

	now := s.now()
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Purpose: PurposeUnsubscribe,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UnsubscribeURL returns the full unsubscribe link for userID, or "" when
// links are disabled.
func (s *LinkSigner) UnsubscribeURL(userID uuid.UUID) (string, error) {
	if !s.Enabled() || s.appURL == "" {
		return "", nil
	}
	token, err := s.Sign(userID)
	if err != nil {
		return "", err
	}
	return s.appURL + "/unsubscribe?token=" + url.QueryEscape(token), nil
}

// Verify parses an unsubscribe token and returns its user id.
func (s *LinkSigner) Verify(tokenString string) (uuid.UUID, error) {
	if !s.Enabled() {
		return uuid.Nil, ErrLinksDisabled
	}
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &linkClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*linkClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	if claims.Purpose != PurposeUnsubscribe {
		return uuid.Nil, fmt.Errorf("invalid purpose: %q", claims.Purpose)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject UUID: %w", err)
	}
	return userID, nil
}
