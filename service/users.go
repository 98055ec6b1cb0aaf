package service

import (
	"errors"
	"strings"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/internal/mailer"
	"github.com/emzola/bookswap/internal/validator"
	"github.com/emzola/bookswap/repository"
)

type users interface {
	RegisterUser(name, email, password string) (*data.User, error)
}

// RegisterUser service creates a new user account and sends a welcome email
// in the background.
func (s *service) RegisterUser(name, email, password string) (*data.User, error) {
	user := &data.User{
		Name:  name,
		Email: email,
	}
	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.CreateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	if s.config.SMTP.Host != "" {
		s.background(func() {
			templateData := map[string]string{
				"userName": strings.Split(user.Name, " ")[0],
			}
			m := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
			err := m.Send(user.Email, "welcome.tmpl", templateData)
			if err != nil {
				s.logger.PrintError(err, nil)
			}
		})
	}
	return user, nil
}
