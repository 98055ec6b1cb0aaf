// Package service implements the business rules of the book exchange on top
// of an injected repository. Handlers call services; services call the
// repository and translate its errors.
package service

import (
	"sync"

	"github.com/emzola/bookswap/config"
	"github.com/emzola/bookswap/internal/jsonlog"
	"github.com/emzola/bookswap/internal/keylock"
	"github.com/emzola/bookswap/repository"
)

type Service interface {
	books
	exchanges
	users
	tokens
}

// service defines the service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
	locks  *keylock.KeyLock
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
		locks:  keylock.New(),
	}
}
