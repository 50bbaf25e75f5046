// Package storage persists orders, partners and the activity log in SQLite
// or Postgres behind the repository ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"daftar/internal/core"
)

// timestampLayout sorts lexicographically in the same order as time.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ Store = (*SQLRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(DialectSQLite, dbPath)
}

func NewPostgresRepository(dsn string) (*SQLRepository, error) {
	return open(DialectPostgres, dsn)
}

func open(dialect Dialect, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// one writer at a time; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, dialect: dialect}, nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (r *SQLRepository) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

const orderColumns = "id, name, order_type, price, date, description, customer_name, customer_address"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (core.Order, error) {
	var (
		o       core.Order
		typ     string
		dateStr string
	)
	if err := row.Scan(&o.ID, &o.Name, &typ, &o.Price, &dateStr, &o.Description, &o.CustomerName, &o.CustomerAddress); err != nil {
		return core.Order{}, err
	}
	o.Type = core.OrderType(typ)
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Order{}, fmt.Errorf("order %d: %w", o.ID, err)
	}
	o.Date = d
	return o, nil
}

func (r *SQLRepository) ListOrders(ctx context.Context) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []core.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) GetOrder(ctx context.Context, id int64) (core.Order, error) {
	row := r.db.QueryRowContext(ctx, r.rebind("SELECT "+orderColumns+" FROM orders WHERE id = ?"), id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (r *SQLRepository) SaveOrder(ctx context.Context, o core.Order) (core.Order, error) {
	args := []any{o.Name, string(o.Type), o.Price, o.Date.String(), o.Description, o.CustomerName, o.CustomerAddress}

	if o.ID == 0 {
		q := r.rebind(`INSERT INTO orders (name, order_type, price, date, description, customer_name, customer_address)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		if err := r.db.QueryRowContext(ctx, q, args...).Scan(&o.ID); err != nil {
			return core.Order{}, fmt.Errorf("insert order: %w", err)
		}
		slog.DebugContext(ctx, "Order inserted", "id", o.ID, "dialect", r.dialect)
		return o, nil
	}

	q := r.rebind(`UPDATE orders SET name = ?, order_type = ?, price = ?, date = ?, description = ?,
		customer_name = ?, customer_address = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, append(args, o.ID)...)
	if err != nil {
		return core.Order{}, fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if err := expectOneRow(res, "order", o.ID); err != nil {
		return core.Order{}, err
	}
	return o, nil
}

func (r *SQLRepository) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM orders WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return expectOneRow(res, "order", id)
}

func scanPartner(row rowScanner) (core.Partner, error) {
	var (
		p   core.Partner
		pct string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.JoinedAmount, &pct); err != nil {
		return core.Partner{}, err
	}
	d, err := decimal.NewFromString(pct)
	if err != nil {
		return core.Partner{}, fmt.Errorf("partner %d percentage %q: %w", p.ID, pct, err)
	}
	p.Percentage = d
	return p, nil
}

func (r *SQLRepository) ListPartners(ctx context.Context) ([]core.Partner, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, joined_amount, percentage FROM partners ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var out []core.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) GetPartner(ctx context.Context, id int64) (core.Partner, error) {
	row := r.db.QueryRowContext(ctx, r.rebind("SELECT id, name, joined_amount, percentage FROM partners WHERE id = ?"), id)
	p, err := scanPartner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Partner{}, fmt.Errorf("partner %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Partner{}, fmt.Errorf("get partner %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLRepository) SavePartner(ctx context.Context, p core.Partner) (core.Partner, error) {
	pct := p.Percentage.StringFixed(2)

	if p.ID == 0 {
		q := r.rebind("INSERT INTO partners (name, joined_amount, percentage) VALUES (?, ?, ?) RETURNING id")
		if err := r.db.QueryRowContext(ctx, q, p.Name, p.JoinedAmount, pct).Scan(&p.ID); err != nil {
			if isUniqueViolation(err) {
				return core.Partner{}, fmt.Errorf("partner %q: %w", p.Name, ErrDuplicateName)
			}
			return core.Partner{}, fmt.Errorf("insert partner: %w", err)
		}
		return p, nil
	}

	q := r.rebind("UPDATE partners SET name = ?, joined_amount = ?, percentage = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, q, p.Name, p.JoinedAmount, pct, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Partner{}, fmt.Errorf("partner %q: %w", p.Name, ErrDuplicateName)
		}
		return core.Partner{}, fmt.Errorf("update partner %d: %w", p.ID, err)
	}
	if err := expectOneRow(res, "partner", p.ID); err != nil {
		return core.Partner{}, err
	}
	return p, nil
}

func (r *SQLRepository) DeletePartner(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM partners WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete partner %d: %w", id, err)
	}
	return expectOneRow(res, "partner", id)
}

func (r *SQLRepository) InsertActivity(ctx context.Context, a core.Activity) error {
	q := r.rebind(`INSERT INTO activity_logs (id, created_at, username, action, model_name, object_id, object_repr, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`)
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.Timestamp.UTC().Format(timestampLayout),
		a.User,
		string(a.Action),
		a.ModelName,
		a.ObjectID,
		a.ObjectRepr,
		a.Details,
	)
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", a.ID, err)
	}
	return nil
}

func (r *SQLRepository) ListActivity(ctx context.Context) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, username, action, model_name, object_id, object_repr, details
		FROM activity_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		var (
			a      core.Activity
			ts     string
			action string
		)
		if err := rows.Scan(&a.ID, &ts, &a.User, &action, &a.ModelName, &a.ObjectID, &a.ObjectRepr, &a.Details); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Action = core.Action(action)
		if a.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, fmt.Errorf("activity %s timestamp: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}

func expectOneRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d rows affected: %w", entity, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
