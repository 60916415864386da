package billing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// Pure-Go SQLite driver: no CGO, registers as "sqlite".
	_ "modernc.org/sqlite"
)

// The bills table is append-only: rows are never updated or deleted.
const schema = `
CREATE TABLE IF NOT EXISTS bills (
    id            TEXT PRIMARY KEY,
    order_id      TEXT NOT NULL,
    amount        REAL NOT NULL,
    -- RFC3339 stored as TEXT, SQLite idiom
    creation_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bills_order_id ON bills(order_id);
`

// SQLiteLedger is a durable Ledger backed by a local SQLite file.
type SQLiteLedger struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database and applies the schema.
// WAL keeps readers from blocking the appending writer; busy_timeout waits
// for locks instead of failing immediately.
func Open(path string) (*SQLiteLedger, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("billing: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("billing: apply schema: %w", err)
	}
	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) Close() error { return l.db.Close() }

func (l *SQLiteLedger) Append(ctx context.Context, orderID string, amount float64) (Bill, error) {
	b := Bill{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO bills(id, order_id, amount, creation_date)
		VALUES (?, ?, ?, ?)`,
		b.ID, b.OrderID, b.Amount, b.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Bill{}, fmt.Errorf("billing: append bill for order %q: %w", orderID, err)
	}
	return b, nil
}

func (l *SQLiteLedger) List(ctx context.Context) ([]Bill, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, order_id, amount, creation_date
		FROM bills ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("billing: list bills: %w", err)
	}
	defer rows.Close()

	var out []Bill
	for rows.Next() {
		var b Bill
		var created string
		if err := rows.Scan(&b.ID, &b.OrderID, &b.Amount, &created); err != nil {
			return nil, err
		}
		b.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("billing: parse time %q: %w", created, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
