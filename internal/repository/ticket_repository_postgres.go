package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-triage-service/internal/domain"
)

const ticketColumns = `id, employee_name, employee_email, subject, description, status,
               ai_category, ai_confidence, ai_response, resolved_by, created_at, updated_at`

type postgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository stores one row per ticket and updates rows
// individually under SELECT ... FOR UPDATE.
func NewPostgresTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &postgresTicketRepository{pool: pool}
}

func (r *postgresTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *postgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, employee_name, employee_email, subject, description, status,
                             ai_category, ai_confidence, ai_response, resolved_by, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        ON CONFLICT (id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.EmployeeName,
		ticket.EmployeeEmail,
		ticket.Subject,
		ticket.Description,
		string(ticket.Status),
		categoryArg(ticket.AICategory),
		ticket.AIConfidence,
		ticket.AIResponse,
		ticket.ResolvedBy,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, ticket.ID)
	}
	return nil
}

func (r *postgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *postgresTicketRepository) Update(ctx context.Context, id string, mutate MutateFunc) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	row := tx.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE`, id)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := mutate(ticket); err != nil {
		return nil, err
	}
	ticket.ID = id

	const query = `
        UPDATE tickets SET status=$1, ai_category=$2, ai_confidence=$3, ai_response=$4,
            resolved_by=$5, updated_at=$6
        WHERE id=$7`
	if _, err := tx.Exec(ctx, query,
		string(ticket.Status),
		categoryArg(ticket.AICategory),
		ticket.AIConfidence,
		ticket.AIResponse,
		ticket.ResolvedBy,
		ticket.UpdatedAt,
		id,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *postgresTicketRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		status   string
		category *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.EmployeeName,
		&ticket.EmployeeEmail,
		&ticket.Subject,
		&ticket.Description,
		&status,
		&category,
		&ticket.AIConfidence,
		&ticket.AIResponse,
		&ticket.ResolvedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatus(status)
	if category != nil {
		c := domain.Category(*category)
		ticket.AICategory = &c
	}
	ticket.CreatedAt = ticket.CreatedAt.UTC()
	ticket.UpdatedAt = ticket.UpdatedAt.UTC()
	return &ticket, nil
}

func categoryArg(c *domain.Category) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
