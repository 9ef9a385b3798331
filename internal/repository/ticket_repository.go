package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/persistence"
)

// ErrTicketNotFound is returned when no ticket has the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrDuplicateID is returned when Create is handed an id already stored.
var ErrDuplicateID = errors.New("ticket id already exists")

// MutateFunc edits a ticket in place. Returning an error aborts the write.
type MutateFunc func(ticket *domain.Ticket) error

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, mutate MutateFunc) (*domain.Ticket, error)
	Ping(ctx context.Context) error
}

type jsonTicketRepository struct {
	file   *persistence.JSONFile
	locker persistence.Locker
}

// NewJSONTicketRepository stores tickets in a single JSON document. Every
// write holds locker across the whole load, mutate, save cycle.
func NewJSONTicketRepository(file *persistence.JSONFile, locker persistence.Locker) TicketRepository {
	return &jsonTicketRepository{file: file, locker: locker}
}

func (r *jsonTicketRepository) List(_ context.Context) ([]domain.Ticket, error) {
	return r.file.Load()
}

func (r *jsonTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.withLock(ctx, func() error {
		tickets, err := r.file.Load()
		if err != nil {
			return err
		}
		for i := range tickets {
			if tickets[i].ID == ticket.ID {
				return fmt.Errorf("%w: %s", ErrDuplicateID, ticket.ID)
			}
		}
		return r.file.Save(append(tickets, *ticket))
	})
}

func (r *jsonTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	tickets, err := r.file.Load()
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, ErrTicketNotFound
}

func (r *jsonTicketRepository) Update(ctx context.Context, id string, mutate MutateFunc) (*domain.Ticket, error) {
	var updated domain.Ticket
	err := r.withLock(ctx, func() error {
		tickets, err := r.file.Load()
		if err != nil {
			return err
		}
		idx := -1
		for i := range tickets {
			if tickets[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrTicketNotFound
		}
		updated = tickets[idx]
		if err := mutate(&updated); err != nil {
			return err
		}
		updated.ID = id
		tickets[idx] = updated
		return r.file.Save(tickets)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *jsonTicketRepository) Ping(_ context.Context) error {
	return r.file.Ping()
}

func (r *jsonTicketRepository) withLock(ctx context.Context, fn func() error) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("lock tickets: %w", err)
	}
	defer unlock()
	return fn()
}
