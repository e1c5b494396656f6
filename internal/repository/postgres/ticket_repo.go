package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventtix/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

const ticketColumns = "id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at"

func scanTicket(row interface{ Scan(...any) error }) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	var userNull sql.NullString
	err := row.Scan(
		&t.ID, &t.Code, &t.EventID, &userNull,
		&t.PurchaserName, &t.PurchaserEmail, &t.IsUsed, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userNull.Valid {
		t.UserID = &userNull.String
	}
	return t, nil
}

// CreateBatch inserts all tickets in one transaction. The event row is locked
// for the duration so the availability check and the inserts cannot interleave
// with a concurrent booking for the same event.
func (r *ticketRepository) CreateBatch(ctx context.Context, eventID string, tickets []*domain.Ticket) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var total int
	err = tx.QueryRowContext(ctx, `SELECT total_tickets FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var issued int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&issued); err != nil {
		return err
	}
	if total-issued < len(tickets) {
		return domain.ErrInsufficientTickets
	}

	insert := `
		INSERT INTO tickets (code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, t := range tickets {
		var userID sql.NullString
		if t.UserID != nil {
			userID = sql.NullString{String: *t.UserID, Valid: true}
		}
		err := tx.QueryRowContext(ctx, insert,
			t.Code, eventID, userID, t.PurchaserName, t.PurchaserEmail, t.IsUsed, t.CreatedAt,
		).Scan(&t.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateCode
			}
			return err
		}
	}

	return tx.Commit()
}

func (r *ticketRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE code = $1`, ticketColumns)
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Ticket, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE event_id = $1
		ORDER BY created_at ASC, code
		LIMIT $2 OFFSET $3
	`, ticketColumns)
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, t)
	}
	return tickets, total, rows.Err()
}

func (r *ticketRepository) MarkUsed(ctx context.Context, code string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`
		UPDATE tickets SET is_used = TRUE
		WHERE code = $1 AND is_used = FALSE
		RETURNING %s
	`, ticketColumns)
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, code))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	// Either the code is unknown or the ticket was already used; look it up to tell.
	existing, lookupErr := r.GetByCode(ctx, code)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing.IsUsed {
		return nil, domain.ErrTicketUsed
	}
	return nil, domain.ErrNotFound
}
