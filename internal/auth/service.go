// Package auth issues JWT sessions for the fixed role accounts.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/config"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Service checks the configured accounts and mints access tokens.
type Service struct {
	cfg config.Config
}

func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

type account struct {
	user string
	pass string
	role string
}

func (s *Service) accounts() []account {
	a := s.cfg.Auth
	return []account{
		{a.BuyerUser, a.BuyerPass, middleware.RoleBuyer},
		{a.PayerUser, a.PayerPass, middleware.RolePayer},
		{a.AdminUser, a.AdminPass, middleware.RoleAdmin},
		{a.CustomerUser, a.CustomerPass, middleware.RoleCustomer},
	}
}

// Login matches the credentials against the configured accounts and returns
// a signed token plus the resolved role.
func (s *Service) Login(username, password string) (string, string, error) {
	for _, acct := range s.accounts() {
		if acct.user == "" {
			continue
		}
		userOK := subtle.ConstantTimeCompare([]byte(acct.user), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(acct.pass), []byte(password)) == 1
		if userOK && passOK {
			token, err := s.issueToken(acct)
			if err != nil {
				return "", "", err
			}
			return token, acct.role, nil
		}
	}
	return "", "", ErrInvalidCredentials
}

func (s *Service) issueToken(acct account) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: acct.role,
		Name:   acct.user,
		Role:   acct.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenExpire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}
