package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"openbook-trader/internal/errors"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal creates a new SQLite-based order journal.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.NewDatabaseError("open", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}

	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("init schema", err)
	}

	return j, nil
}

// initSchema creates all required tables and indexes.
func (j *SQLiteJournal) initSchema() error {
	schema := `
	-- Orders table for submitted and cancelled orders
	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		market TEXT NOT NULL,
		open_orders TEXT NOT NULL,
		client_order_id INTEGER NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		quote_size_usd INTEGER NOT NULL,
		signature TEXT,
		status TEXT NOT NULL DEFAULT 'SUBMITTED',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(market, client_order_id)
	);

	CREATE INDEX IF NOT EXISTS idx_orders_market ON orders(market);
	CREATE INDEX IF NOT EXISTS idx_orders_timestamp ON orders(timestamp);
	`

	_, err := j.db.Exec(schema)
	return err
}

// RecordOrder journals a submitted order.
func (j *SQLiteJournal) RecordOrder(ctx context.Context, rec *OrderRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO orders (timestamp, market, open_orders, client_order_id, side, price, quote_size_usd, signature, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Market, rec.OpenOrders, int64(rec.ClientOrderID),
		rec.Side, rec.Price, int64(rec.QuoteSizeUSD), rec.Signature, string(rec.Status),
	)
	if err != nil {
		return errors.NewDatabaseError("record order", err)
	}
	return nil
}

// MarkCancelled flips an order's status to cancelled.
func (j *SQLiteJournal) MarkCancelled(ctx context.Context, market string, clientOrderID uint64) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE orders SET status = ? WHERE market = ? AND client_order_id = ?`,
		string(StatusCancelled), market, int64(clientOrderID),
	)
	if err != nil {
		return errors.NewDatabaseError("mark cancelled", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewDatabaseError("mark cancelled",
			fmt.Errorf("no journalled order %d on %s", clientOrderID, market))
	}
	return nil
}

// GetOrders returns journalled orders, newest first.
func (j *SQLiteJournal) GetOrders(ctx context.Context, filter OrderFilter) ([]OrderRecord, error) {
	query := `SELECT id, timestamp, market, open_orders, client_order_id, side, price, quote_size_usd, signature, status FROM orders`

	var conditions []string
	var args []interface{}

	if filter.Market != "" {
		conditions = append(conditions, "market = ?")
		args = append(args, filter.Market)
	}
	if filter.Side != "" {
		conditions = append(conditions, "side = ?")
		args = append(args, filter.Side)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndDate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("get orders", err)
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		var clientOrderID, quoteSize int64
		var signature sql.NullString
		var status string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Market, &rec.OpenOrders,
			&clientOrderID, &rec.Side, &rec.Price, &quoteSize, &signature, &status); err != nil {
			return nil, errors.NewDatabaseError("scan order", err)
		}
		rec.ClientOrderID = uint64(clientOrderID)
		rec.QuoteSizeUSD = uint64(quoteSize)
		rec.Signature = signature.String
		rec.Status = OrderStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
