package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtIssuer   = "shawedgym-api"
	jwtAudience = "shawedgym-users"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Roles carried in the token. An admin owns gyms; a cashier is staff bound
// to exactly one gym.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (p Principal) IsOwner() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsStaff() bool {
	return p.Role == RoleCashier
}

type Claims struct {
	Principal
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Provider issues and verifies HS256 tokens with a single signing secret.
type Provider struct {
	secret []byte
}

func NewProvider(secret string) (*Provider, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}
	return &Provider{secret: []byte(secret)}, nil
}

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func (p *Provider) sign(principal Principal, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Principal: principal,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) IssueTokens(principal Principal) (TokenPair, error) {
	access, err := p.sign(principal, tokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := p.sign(principal, tokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (p *Provider) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return p.secret, nil
		},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccess returns the principal of a valid access token.
func (p *Provider) VerifyAccess(tokenString string) (Principal, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return Principal{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Principal{}, ErrInvalidTokenType
	}
	return claims.Principal, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (p *Provider) Refresh(refreshToken string) (TokenPair, Principal, error) {
	claims, err := p.parse(refreshToken)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return TokenPair{}, Principal{}, ErrInvalidTokenType
	}

	pair, err := p.IssueTokens(claims.Principal)
	if err != nil {
		return TokenPair{}, Principal{}, err
	}
	return pair, claims.Principal, nil
}
