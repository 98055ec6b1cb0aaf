package jsonfile

import (
	"time"

	"github.com/emzola/bookswap/data"
	"github.com/emzola/bookswap/repository"
	"github.com/google/uuid"
)

func (r *exchangeRecord) toData() *data.Exchange {
	exchange := &data.Exchange{
		ID:              r.ID,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		OwnerID:         r.OwnerID,
		OwnerName:       r.OwnerName,
		RequestedBookID: r.RequestedBookID,
		OfferedBookID:   r.OfferedBookID,
		Message:         r.Message,
		Status:          data.ExchangeStatus(r.Status),
		CreatedAt:       r.CreatedAt,
	}
	if r.RespondedAt != nil {
		respondedAt := *r.RespondedAt
		exchange.RespondedAt = &respondedAt
	}
	return exchange
}

// CreateExchange inserts a new exchange request record.
func (s *Store) CreateExchange(exchange *data.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exchange.ID = uuid.NewString()
	exchange.CreatedAt = time.Now().UTC()
	s.doc.Exchanges = append(s.doc.Exchanges, &exchangeRecord{
		ID:              exchange.ID,
		RequesterID:     exchange.RequesterID,
		RequesterName:   exchange.RequesterName,
		OwnerID:         exchange.OwnerID,
		OwnerName:       exchange.OwnerName,
		RequestedBookID: exchange.RequestedBookID,
		OfferedBookID:   exchange.OfferedBookID,
		Message:         exchange.Message,
		Status:          string(exchange.Status),
		CreatedAt:       exchange.CreatedAt,
	})
	return s.persist()
}

// GetExchange retrieves an exchange request record by its ID.
func (s *Store) GetExchange(id string) (*data.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.doc.Exchanges {
		if record.ID == id {
			return record.toData(), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// GetAllExchangesForOwner retrieves exchange requests addressed to a user,
// i.e. those whose requested book belonged to the user at creation time.
func (s *Store) GetAllExchangesForOwner(userID string) ([]*data.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exchanges := []*data.Exchange{}
	for _, record := range s.doc.Exchanges {
		if record.OwnerID == userID {
			exchanges = append(exchanges, record.toData())
		}
	}
	return exchanges, nil
}

// GetAllExchangesForRequester retrieves exchange requests created by a user.
func (s *Store) GetAllExchangesForRequester(userID string) ([]*data.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exchanges := []*data.Exchange{}
	for _, record := range s.doc.Exchanges {
		if record.RequesterID == userID {
			exchanges = append(exchanges, record.toData())
		}
	}
	return exchanges, nil
}

// UpdateExchange updates an exchange request record.
func (s *Store) UpdateExchange(exchange *data.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.doc.Exchanges {
		if record.ID == exchange.ID {
			record.Status = string(exchange.Status)
			record.Message = exchange.Message
			if exchange.RespondedAt != nil {
				respondedAt := *exchange.RespondedAt
				record.RespondedAt = &respondedAt
			}
			return s.persist()
		}
	}
	return repository.ErrRecordNotFound
}
