package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"gic-cinemas/model"
)

const theatreRowID = 1

type theatreRow struct {
	bun.BaseModel `bun:"table:theatres"`

	ID          int64  `bun:"id,pk"`
	Title       string `bun:"title,notnull"`
	RowCount    int    `bun:"row_count,notnull"`
	SeatsPerRow int    `bun:"seats_per_row,notnull"`
}

type bookingRow struct {
	bun.BaseModel `bun:"table:bookings"`

	ID       string `bun:"id,pk"`
	Position int    `bun:"position,notnull"`
	Status   string `bun:"status,notnull"`
	Seats    string `bun:"seats,notnull"`
}

// SQLiteStore keeps the theatre in a local SQLite database.
type SQLiteStore struct {
	db *bun.DB
}

// OpenSQLite opens dsn and creates the schema if needed.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	for _, m := range []any{(*theatreRow)(nil), (*bookingRow)(nil)} {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create table: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (model.Theatre, bool, error) {
	var row theatreRow
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", theatreRowID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Theatre{}, false, nil
	}
	if err != nil {
		return model.Theatre{}, false, fmt.Errorf("load theatre: %w", err)
	}

	var rows []bookingRow
	if err := s.db.NewSelect().Model(&rows).Order("position ASC").Scan(ctx); err != nil {
		return model.Theatre{}, false, fmt.Errorf("load bookings: %w", err)
	}

	theatre := model.Theatre{
		Title:       row.Title,
		Rows:        row.RowCount,
		SeatsPerRow: row.SeatsPerRow,
		Bookings:    make([]model.Booking, 0, len(rows)),
	}
	for _, r := range rows {
		booking := model.Booking{ID: r.ID, Status: model.BookingStatus(r.Status)}
		for _, label := range strings.Split(r.Seats, ",") {
			if label == "" {
				continue
			}
			seat, err := model.ParseSeat(label)
			if err != nil {
				return model.Theatre{}, false, fmt.Errorf("booking %s: %w", r.ID, err)
			}
			booking.Seats = append(booking.Seats, seat)
		}
		theatre.Bookings = append(theatre.Bookings, booking)
	}
	return theatre, true, nil
}

// Save replaces the stored theatre and ledger in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, theatre model.Theatre) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}
		row := theatreRow{
			ID:          theatreRowID,
			Title:       theatre.Title,
			RowCount:    theatre.Rows,
			SeatsPerRow: theatre.SeatsPerRow,
		}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return fmt.Errorf("insert theatre: %w", err)
		}
		if len(theatre.Bookings) == 0 {
			return nil
		}
		rows := make([]bookingRow, len(theatre.Bookings))
		for i, b := range theatre.Bookings {
			rows[i] = bookingRow{
				ID:       b.ID,
				Position: i,
				Status:   string(b.Status),
				Seats:    strings.Join(model.SeatLabels(b.Seats), ","),
			}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert bookings: %w", err)
		}
		return nil
	})
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return clearTables(ctx, tx)
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func clearTables(ctx context.Context, tx bun.Tx) error {
	if _, err := tx.NewDelete().Model((*bookingRow)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}
	if _, err := tx.NewDelete().Model((*theatreRow)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("clear theatre: %w", err)
	}
	return nil
}
