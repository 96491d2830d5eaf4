package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 24 * time.Hour

// CreateSessionToken signs a token naming the user on the local API.
func (s *Service) CreateSessionToken(userId string) (string, error) {
	if len(s.JWTSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	if userId == "" {
		return "", errors.New("empty user id")
	}

	now := s.Now()
	claims := jwt.MapClaims{
		"id":  userId,
		"exp": now.Add(sessionTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (s *Service) VerifySessionToken(tokenString string) (string, time.Time, error) {
	if len(s.JWTSecret) == 0 {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil {
		return "", time.Time{}, err
	}

	if !token.Valid {
		return "", time.Time{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errors.New("invalid token claims")
	}

	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", time.Time{}, errors.New("missing id claim")
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return "", time.Time{}, errors.New("missing exp claim")
	}
	expiry := time.Unix(int64(expFloat), 0)

	return id, expiry, nil
}

// AuthenticateToken resolves a bearer token to the user id it was issued for.
func (s *Service) AuthenticateToken(token string) (string, error) {
	if len(token) == 0 {
		return "", errors.New("token not provided")
	}

	id, _, err := s.VerifySessionToken(token)
	if err != nil {
		return "", err
	}

	return id, nil
}
