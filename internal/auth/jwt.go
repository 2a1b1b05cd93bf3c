package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken = errors.New("JWT token is invalid")
	ErrExpiredJWTToken = errors.New("JWT token is expired")
)

const (
	defaultJWTDuration        = 72 * time.Hour
	defaultActivationDuration = 24 * time.Hour

	purposeAccess     = "access"
	purposeActivation = "activation"
)

type JWTManagerInterface interface {
	GenerateAccessJWT(userID string, accountID int64) (string, error)
	ValidateAccessToken(tokenString string) (*AccessTokenCustomClaims, error)
	AccessTokenTTL() time.Duration
}

type AccessTokenCustomClaims struct {
	UserID    string `json:"user_id"`
	AccountID int64  `json:"account_id"`
	Purpose   string `json:"purpose"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret        []byte
	accessTTL     time.Duration
	activationTTL time.Duration
	now           func() time.Time
}

func NewJWTManager(secret string, accessTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = defaultJWTDuration
	}
	return &JWTManager{
		secret:        []byte(secret),
		accessTTL:     accessTTL,
		activationTTL: defaultActivationDuration,
		now:           time.Now,
	}, nil
}

func (j *JWTManager) AccessTokenTTL() time.Duration {
	return j.accessTTL
}

func (j *JWTManager) sign(userID string, accountID int64, purpose string, duration time.Duration) (string, error) {
	now := j.now()
	claims := &AccessTokenCustomClaims{
		UserID:    userID,
		AccountID: accountID,
		Purpose:   purpose,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTManager) parse(tokenString, purpose string) (*AccessTokenCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredJWTToken
		}
		return nil, ErrInvalidJWTToken
	}

	claims, ok := token.Claims.(*AccessTokenCustomClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.Purpose != purpose {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func (j *JWTManager) GenerateAccessJWT(userID string, accountID int64) (string, error) {
	return j.sign(userID, accountID, purposeAccess, j.accessTTL)
}

func (j *JWTManager) ValidateAccessToken(tokenString string) (*AccessTokenCustomClaims, error) {
	claims, err := j.parse(tokenString, purposeAccess)
	if err != nil {
		return nil, err
	}
	if claims.AccountID <= 0 {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

// GenerateActivationToken issues the token embedded in account activation links.
func (j *JWTManager) GenerateActivationToken(userID string) (string, time.Duration, error) {
	token, err := j.sign(userID, 0, purposeActivation, j.activationTTL)
	return token, j.activationTTL, err
}

func (j *JWTManager) ValidateActivationToken(tokenString string) (string, error) {
	claims, err := j.parse(tokenString, purposeActivation)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
