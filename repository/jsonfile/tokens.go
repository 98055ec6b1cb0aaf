package jsonfile

import (
	"time"

	"github.com/emzola/bookswap/data"
)

// CreateToken generates a token for a user and persists its hash.
func (s *Store) CreateToken(userID string, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Drop expired tokens while we're here; the collection would otherwise
	// grow with every login.
	kept := s.doc.Tokens[:0]
	for _, record := range s.doc.Tokens {
		if record.Expiry.After(time.Now()) {
			kept = append(kept, record)
		}
	}
	s.doc.Tokens = kept
	s.doc.Tokens = append(s.doc.Tokens, &tokenRecord{
		Hash:   token.Hash,
		UserID: token.UserID,
		Expiry: token.Expiry,
		Scope:  token.Scope,
	})
	err = s.persist()
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteAllTokensForUser deletes every token for a user in a scope.
func (s *Store) DeleteAllTokensForUser(scope, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Tokens[:0]
	for _, record := range s.doc.Tokens {
		if record.Scope == scope && record.UserID == userID {
			continue
		}
		kept = append(kept, record)
	}
	s.doc.Tokens = kept
	return s.persist()
}
