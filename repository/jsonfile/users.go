package jsonfile

import (
	"bytes"
	"crypto/sha256"
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

func (r *userRecord) toData() *data.User {
	user := &data.User{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Name:      r.Name,
		Email:     r.Email,
		Version:   r.Version,
	}
	user.Password.SetHash(r.PasswordHash)
	return user
}

// CreateUser inserts a new user record. The email address must be unique
// across the collection.
func (s *Store) CreateUser(user *data.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.doc.Users {
		if record.Email == user.Email {
			return repository.ErrDuplicateRecord
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.Version = 1
	s.doc.Users = append(s.doc.Users, &userRecord{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.Password.Hash,
		CreatedAt:    user.CreatedAt,
		Version:      user.Version,
	})
	return s.persist()
}

// GetUserByID retrieves a user record by its ID.
func (s *Store) GetUserByID(id string) (*data.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.doc.Users {
		if record.ID == id {
			return record.toData(), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// GetUserByEmail retrieves a user record by its email.
func (s *Store) GetUserByEmail(email string) (*data.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.doc.Users {
		if record.Email == email {
			return record.toData(), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// UpdateUser updates a user record, guarding against concurrent edits with a
// version check.
func (s *Store) UpdateUser(user *data.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.doc.Users {
		if record.Email == user.Email && record.ID != user.ID {
			return repository.ErrDuplicateRecord
		}
	}
	for _, record := range s.doc.Users {
		if record.ID == user.ID {
			if record.Version != user.Version {
				return repository.ErrEditConflict
			}
			record.Name = user.Name
			record.Email = user.Email
			record.PasswordHash = user.Password.Hash
			record.Version++
			user.Version = record.Version
			return s.persist()
		}
	}
	return repository.ErrRecordNotFound
}

// GetUserForToken returns the user associated with an unexpired token in the
// given scope.
func (s *Store) GetUserForToken(scope, tokenPlaintext string) (*data.User, error) {
	hash := sha256.Sum256([]byte(tokenPlaintext))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.doc.Tokens {
		if token.Scope == scope && bytes.Equal(token.Hash, hash[:]) && token.Expiry.After(time.Now()) {
			for _, record := range s.doc.Users {
				if record.ID == token.UserID {
					return record.toData(), nil
				}
			}
		}
	}
	return nil, repository.ErrRecordNotFound
}
