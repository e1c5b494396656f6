package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventtix/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := "user-1"

	newBatch := func(n int) []*domain.Ticket {
		tickets := make([]*domain.Ticket, 0, n)
		for i := 0; i < n; i++ {
			tickets = append(tickets, domain.NewTicket("ev-1", &userID, "Alice", "alice@example.com", created))
		}
		return tickets
	}

	t.Run("success inserts all tickets and commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		tickets := newBatch(2)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_tickets FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_tickets"}).AddRow(2))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets \(code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at\)`).
			WithArgs(tickets[0].Code, "ev-1", sql.NullString{String: "user-1", Valid: true}, "Alice", "alice@example.com", false, created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-1"))
		mock.ExpectQuery(`INSERT INTO tickets \(code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at\)`).
			WithArgs(tickets[1].Code, "ev-1", sql.NullString{String: "user-1", Valid: true}, "Alice", "alice@example.com", false, created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-2"))
		mock.ExpectCommit()

		repo := NewTicketRepository(db)
		err = repo.CreateBatch(ctx, "ev-1", tickets)
		require.NoError(t, err)
		require.Equal(t, "tk-1", tickets[0].ID)
		require.Equal(t, "tk-2", tickets[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous purchase stores null user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ticket := domain.NewTicket("ev-1", nil, "Bob", "bob@example.com", created)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_tickets FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_tickets"}).AddRow(10))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectQuery(`INSERT INTO tickets \(code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at\)`).
			WithArgs(ticket.Code, "ev-1", sql.NullString{}, "Bob", "bob@example.com", false, created).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-1"))
		mock.ExpectCommit()

		repo := NewTicketRepository(db)
		err = repo.CreateBatch(ctx, "ev-1", []*domain.Ticket{ticket})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch larger than remaining capacity rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_tickets FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_tickets"}).AddRow(2))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		repo := NewTicketRepository(db)
		err = repo.CreateBatch(ctx, "ev-1", newBatch(2))
		require.True(t, errors.Is(err, domain.ErrInsufficientTickets))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown event rolls back with not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_tickets FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		repo := NewTicketRepository(db)
		err = repo.CreateBatch(ctx, "ev-missing", newBatch(1))
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("code collision rolls back with duplicate code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_tickets FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"total_tickets"}).AddRow(10))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		repo := NewTicketRepository(db)
		err = repo.CreateBatch(ctx, "ev-1", newBatch(1))
		require.True(t, errors.Is(err, domain.ErrDuplicateCode))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTicketRepository_CountByEventID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewTicketRepository(db)
	count, err := repo.CountByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_GetByCode(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		code       string
		mock       func(mock sqlmock.Sqlmock)
		want       *domain.Ticket
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			code: "AB12CD34EF56",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at FROM tickets WHERE code = \$1`).
					WithArgs("AB12CD34EF56").
					WillReturnRows(sqlmock.NewRows([]string{"id", "code", "event_id", "user_id", "purchaser_name", "purchaser_email", "is_used", "created_at"}).
						AddRow("tk-1", "AB12CD34EF56", "ev-1", nil, "Alice", "alice@example.com", false, created))
			},
			want: &domain.Ticket{
				ID:             "tk-1",
				Code:           "AB12CD34EF56",
				EventID:        "ev-1",
				PurchaserName:  "Alice",
				PurchaserEmail: "alice@example.com",
				CreatedAt:      created,
			},
		},
		{
			name: "not found",
			code: "000000000000",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at FROM tickets WHERE code = \$1`).
					WithArgs("000000000000").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewTicketRepository(db)
			got, err := repo.GetByCode(ctx, tt.code)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTicketRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tickets WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at FROM tickets`).
		WithArgs("ev-1", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "event_id", "user_id", "purchaser_name", "purchaser_email", "is_used", "created_at"}).
			AddRow("tk-11", "AB12CD34EF56", "ev-1", "user-1", "Alice", "alice@example.com", false, created).
			AddRow("tk-12", "FF12CD34EF99", "ev-1", nil, "Bob", "bob@example.com", true, created))

	repo := NewTicketRepository(db)
	tickets, total, err := repo.ListByEventID(ctx, "ev-1", domain.PaginationParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.Len(t, tickets, 2)
	require.Equal(t, "AB12CD34EF56", tickets[0].Code)
	require.NotNil(t, tickets[0].UserID)
	require.Equal(t, "user-1", *tickets[0].UserID)
	require.Nil(t, tickets[1].UserID)
	require.True(t, tickets[1].IsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_MarkUsed(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success marks unused ticket", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets SET is_used = TRUE`).
			WithArgs("AB12CD34EF56").
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "event_id", "user_id", "purchaser_name", "purchaser_email", "is_used", "created_at"}).
				AddRow("tk-1", "AB12CD34EF56", "ev-1", nil, "Alice", "alice@example.com", true, created))

		repo := NewTicketRepository(db)
		got, err := repo.MarkUsed(ctx, "AB12CD34EF56")
		require.NoError(t, err)
		require.True(t, got.IsUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already used", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets SET is_used = TRUE`).
			WithArgs("AB12CD34EF56").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at FROM tickets WHERE code = \$1`).
			WithArgs("AB12CD34EF56").
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "event_id", "user_id", "purchaser_name", "purchaser_email", "is_used", "created_at"}).
				AddRow("tk-1", "AB12CD34EF56", "ev-1", nil, "Alice", "alice@example.com", true, created))

		repo := NewTicketRepository(db)
		got, err := repo.MarkUsed(ctx, "AB12CD34EF56")
		require.True(t, errors.Is(err, domain.ErrTicketUsed))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets SET is_used = TRUE`).
			WithArgs("000000000000").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT id, code, event_id, user_id, purchaser_name, purchaser_email, is_used, created_at FROM tickets WHERE code = \$1`).
			WithArgs("000000000000").
			WillReturnError(sql.ErrNoRows)

		repo := NewTicketRepository(db)
		got, err := repo.MarkUsed(ctx, "000000000000")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
