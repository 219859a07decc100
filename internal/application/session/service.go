package session

import (
	"context"
	"fmt"

	"github.com/callme-api/internal/domain"
	"github.com/callme-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// operatorSubject is the JWT subject for the single shared-password login.
const operatorSubject = "dev"

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type tokenSigner interface {
	Sign(subject string) (string, error)
}

type service struct {
	passwordHash []byte
	signer       tokenSigner
}

// NewService hashes the shared operator password once at construction so
// logins compare against a bcrypt hash rather than the plaintext.
func NewService(devPassword string, signer tokenSigner) Service {
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.DefaultCost)
	if err != nil {
		panic("hash operator password: " + err.Error())
	}
	return &service{passwordHash: hash, signer: signer}
}

func (s *service) Login(_ context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(operatorSubject)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "bearer"}, nil
}
