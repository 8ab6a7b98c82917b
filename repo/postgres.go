package repo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"QuizBot/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxDates caps every date listing.
const MaxDates = 30

const eventColumns = `title, start_time, type, price, category, difficulty,
	location_name, location_address, url, "date", organizer`

// PostgresStore is the event store and interaction log backed by a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	loc  *time.Location
	now  func() time.Time
}

// NewPostgresStore opens a pool for dsn. The pool connects lazily, so an
// unreachable database only surfaces as ErrStoreUnavailable on first use.
// "Today" is computed in loc.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, loc *time.Location) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &PostgresStore{pool: pool, loc: loc, now: time.Now}, nil
}

// today returns the current calendar date in the store's zone as UTC midnight,
// which is how pgx hands back DATE values.
func (s *PostgresStore) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withConn runs f on a pooled connection. The connection is released on every
// path and any failure is reported as ErrStoreUnavailable.
func (s *PostgresStore) withConn(ctx context.Context, op string, f func(*pgxpool.Conn) error) error {
	if err := s.pool.AcquireFunc(ctx, f); err != nil {
		return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, op, err)
	}
	return nil
}

func (s *PostgresStore) ListDatesWithEvents(ctx context.Context) ([]time.Time, error) {
	query := `SELECT DISTINCT "date" FROM msk_events WHERE "date" >= $1 ORDER BY "date" LIMIT ` + strconv.Itoa(MaxDates)

	var dates []time.Time
	err := s.withConn(ctx, "list dates", func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, query, s.today())
		if err != nil {
			return err
		}
		dates, err = pgx.CollectRows(rows, pgx.RowTo[time.Time])
		return err
	})
	return dates, err
}

func (s *PostgresStore) ListDistinct(ctx context.Context, d model.Dimension) ([]string, error) {
	col := d.Column()
	if col == "" {
		return nil, fmt.Errorf("list distinct: no column for dimension %s", d)
	}
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM msk_events
		WHERE "date" >= $1 AND %[1]s IS NOT NULL AND %[1]s <> ''
		ORDER BY %[1]s`, col)

	var values []string
	err := s.withConn(ctx, "list "+d.String(), func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, query, s.today())
		if err != nil {
			return err
		}
		values, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	return values, err
}

func (s *PostgresStore) ListDatesFor(ctx context.Context, d model.Dimension, value string) ([]time.Time, error) {
	col := d.Column()
	if col == "" {
		return nil, fmt.Errorf("list dates: no column for dimension %s", d)
	}
	query := fmt.Sprintf(`SELECT DISTINCT "date" FROM msk_events
		WHERE "date" >= $1 AND %s = $2
		ORDER BY "date" LIMIT %d`, col, MaxDates)

	var dates []time.Time
	err := s.withConn(ctx, "list dates for "+d.String(), func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, query, s.today(), value)
		if err != nil {
			return err
		}
		dates, err = pgx.CollectRows(rows, pgx.RowTo[time.Time])
		return err
	})
	return dates, err
}

func (s *PostgresStore) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM msk_events WHERE "date" = $1`
	args := []any{f.Date}
	if col := f.Dimension.Column(); col != "" {
		query += " AND " + col + " = $2"
		args = append(args, f.Value)
	}
	query += " ORDER BY start_time"

	var events []model.Event
	err := s.withConn(ctx, "list events", func(c *pgxpool.Conn) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		events, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
		return err
	})
	return events, err
}

// RecordInteraction appends one row to the interaction log.
func (s *PostgresStore) RecordInteraction(ctx context.Context, in model.Interaction) error {
	var userName *string
	if in.UserName != "" {
		userName = &in.UserName
	}

	return s.withConn(ctx, "record interaction", func(c *pgxpool.Conn) error {
		_, err := c.Exec(ctx,
			"INSERT INTO msk_user_filter_stats (user_id, user_name, filter_type, filter_value) VALUES ($1, $2, $3, $4)",
			in.UserID, userName, in.Type, in.Value)
		return err
	})
}

// Health returns a map of health status information about the pool.
func (s *PostgresStore) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	st := s.pool.Stat()
	stats["total_conns"] = strconv.Itoa(int(st.TotalConns()))
	stats["acquired_conns"] = strconv.Itoa(int(st.AcquiredConns()))
	stats["idle_conns"] = strconv.Itoa(int(st.IdleConns()))
	stats["acquire_count"] = strconv.FormatInt(st.AcquireCount(), 10)
	stats["empty_acquire_count"] = strconv.FormatInt(st.EmptyAcquireCount(), 10)
	stats["acquire_duration"] = st.AcquireDuration().String()

	if st.EmptyAcquireCount() > st.AcquireCount()/2 && st.AcquireCount() > 100 {
		stats["message"] = "Most acquires had to wait for a connection, consider raising DB_MAX_CONNS."
	}
	return stats
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
