package jsonfile

import (
	"github.com/emzola/bookswap/data"
)

// Seed populates an empty store with two sample users (password "password123")
// and three sample books. A store that already has users is left untouched.
func (s *Store) Seed() error {
	s.mu.RLock()
	empty := len(s.doc.Users) == 0
	s.mu.RUnlock()
	if !empty {
		return nil
	}

	john := &data.User{Name: "John Doe", Email: "john@example.com"}
	jane := &data.User{Name: "Jane Smith", Email: "jane@example.com"}
	for _, user := range []*data.User{john, jane} {
		err := user.Password.Set("password123")
		if err != nil {
			return err
		}
		err = s.CreateUser(user)
		if err != nil {
			return err
		}
	}

	books := []*data.Book{
		{
			OwnerID:     john.ID,
			OwnerName:   john.Name,
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Genre:       "Fiction",
			Condition:   "Good",
			Description: "A classic American novel",
			Status:      data.BookStatusAvailable,
		},
		{
			OwnerID:     jane.ID,
			OwnerName:   jane.Name,
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Genre:       "Fiction",
			Condition:   "Very Good",
			Description: "A powerful story of racial injustice and childhood innocence",
			Status:      data.BookStatusAvailable,
		},
		{
			OwnerID:     john.ID,
			OwnerName:   john.Name,
			Title:       "Clean Code",
			Author:      "Robert C. Martin",
			Genre:       "Technology",
			Condition:   "Like New",
			Description: "A handbook of agile software craftsmanship",
			Status:      data.BookStatusAvailable,
		},
	}
	for _, book := range books {
		err := s.CreateBook(book)
		if err != nil {
			return err
		}
	}
	return nil
}
