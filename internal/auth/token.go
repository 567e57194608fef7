package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractTokenFromRequest extracts a JWT token from an HTTP request's Authorization header
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	// Bearer token format: "Bearer {token}"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}

	return parts[1], nil
}

// ParseUserID verifies an HS256-signed token and returns the numeric user
// id carried in its subject claim.
func ParseUserID(tokenString, secret string) (int64, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	return subjectUserID(claims)
}

// subjectUserID reads the sub claim as a numeric user id. Issuers encode
// it either as a JSON number or as a numeric string.
func subjectUserID(claims jwt.MapClaims) (int64, error) {
	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("subject claim is not a numeric user id: %q", sub)
		}
		return id, nil
	case float64:
		return int64(sub), nil
	default:
		return 0, errors.New("subject claim not found in token")
	}
}
