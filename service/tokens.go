package service

import (
	"errors"
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/internal/validator"
	"github.com/emzola/bookswap/repository"
)

type tokens interface {
	CreateAuthenticationToken(email, password string) (*data.Token, *data.User, error)
	GetUserForToken(scope, tokenPlaintext string) (*data.User, error)
}

// CreateAuthenticationToken service authenticates a user by email and
// password and issues a new bearer token valid for 24 hours.
func (s *service) CreateAuthenticationToken(email, password string) (*data.Token, *data.User, error) {
	v := validator.New()
	data.ValidateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, nil, s.failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}
	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, nil, err
	}
	if !match {
		return nil, nil, ErrInvalidCredentials
	}
	token, err := s.repo.CreateToken(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// GetUserForToken service resolves a bearer token to its user.
func (s *service) GetUserForToken(scope, tokenPlaintext string) (*data.User, error) {
	user, err := s.repo.GetUserForToken(scope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	return user, nil
}
