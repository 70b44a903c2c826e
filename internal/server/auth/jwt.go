// Package auth implements password hashing and the stateless bearer tokens
// handed out on login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// now is the clock used for issuing and validating tokens.
var now = time.Now

func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch algorithm {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, common.ErrUnsupportedAlgorithm
	}
}

// GenerateToken signs a token for subject that expires validityDuration
// from now.
func GenerateToken(subject string, secretKey []byte, algorithm string, validityDuration time.Duration) (string, error) {
	method, err := signingMethod(algorithm)
	if err != nil {
		return "", err
	}

	issuedAt := now()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies tokenString and returns its subject.
// Expired tokens yield common.ErrTokenExpired; anything else that fails
// (signature, format, algorithm, missing subject) yields common.ErrInvalidToken.
func GetSubjectFromToken(tokenString string, secretKey []byte, algorithm string) (string, error) {
	if _, err := signingMethod(algorithm); err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
