// File: internal/auth/jwt.go
package auth

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 7 * 24 * time.Hour

// GenerateJWT signs a token carrying the user id as its subject.
func GenerateJWT(userID uint, secretKey []byte) (string, error) {
    if userID == 0 {
        return "", errors.New("user ID cannot be zero")
    }

    claims := jwt.MapClaims{
        "sub": userID,
        "iat": time.Now().Unix(),
        "exp": time.Now().Add(tokenLifetime).Unix(),
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    tokenString, err := token.SignedString(secretKey)
    if err != nil {
        return "", err
    }

    return tokenString, nil
}

// ValidateToken checks the signature and expiry and returns the user id the
// token was issued for. Only HMAC signing methods are accepted.
func ValidateToken(tokenString string, secretKey []byte) (uint, error) {
    token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return secretKey, nil
    })
    if err != nil {
        return 0, err
    }

    if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
        if userIDFloat, ok := claims["sub"].(float64); ok && userIDFloat > 0 {
            return uint(userIDFloat), nil
        }
    }

    return 0, errors.New("invalid token")
}
