package utils

import (
	"strings"
	"time"

	"github.com/shapovv/InterviewerServer/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = time.Hour

// GenerateJWTToken выпускает HS256-токен с email пользователя в subject.
func GenerateJWTToken(email string, cfg *config.Config) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseEmailFromToken валидирует токен и возвращает email из subject.
// Просроченный, битый или подписанный другим методом токен отклоняется.
func ParseEmailFromToken(tokenString string, cfg *config.Config) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if claims.Subject == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	return claims.Subject, nil
}

// ExtractEmailFromToken достаёт bearer-токен из заголовка Authorization.
func ExtractEmailFromToken(c *fiber.Ctx, cfg *config.Config) (string, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	return ParseEmailFromToken(tokenString, cfg)
}
