// Package jsonfile implements the repository interface on top of a single
// JSON document persisted to disk: top-level arrays of users, books, exchange
// requests and tokens. The whole document is held in memory and rewritten
// atomically on every mutation. A RWMutex serializes mutations so concurrent
// requests cannot interleave read-modify-write cycles on the document.
package jsonfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// document is the on-disk shape of the store.
type document struct {
	Users     []*userRecord     `json:"users"`
	Books     []*bookRecord     `json:"books"`
	Exchanges []*exchangeRecord `json:"exchanges"`
	Tokens    []*tokenRecord    `json:"tokens"`
}

type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	Version      int32     `json:"version"`
}

type bookRecord struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int32     `json:"version"`
}

type exchangeRecord struct {
	ID              string     `json:"id"`
	RequesterID     string     `json:"requester_id"`
	RequesterName   string     `json:"requester_name"`
	OwnerID         string     `json:"owner_id"`
	OwnerName       string     `json:"owner_name"`
	RequestedBookID string     `json:"requested_book_id"`
	OfferedBookID   string     `json:"offered_book_id"`
	Message         string     `json:"message,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

type tokenRecord struct {
	Hash   []byte    `json:"hash"`
	UserID string    `json:"user_id"`
	Expiry time.Time `json:"expiry"`
	Scope  string    `json:"scope"`
}

// Store holds the in-memory document and the path it is persisted to.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  document
}

// openDocument reads the document at path, creating an empty one if the file
// does not exist yet.
func (s *Store) openDocument() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.doc = document{}
			return s.persist()
		}
		return err
	}
	return json.Unmarshal(raw, &s.doc)
}

// Open opens (or creates) the JSON document store at path.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	err := s.openDocument()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// persist rewrites the whole document to disk. It writes to a temp file in the
// same directory and renames it over the target so readers never observe a
// half-written document. Callers must hold the write lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return err
	}
	_, err = tmp.Write(append(raw, '\n'))
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Counts reports the number of records per collection.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"users":     len(s.doc.Users),
		"books":     len(s.doc.Books),
		"exchanges": len(s.doc.Exchanges),
		"tokens":    len(s.doc.Tokens),
	}
}
