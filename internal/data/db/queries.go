package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the typed statements used by the stores.
type Queries struct {
	db DBTX
}

// New binds queries to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const kvGet = `SELECT key, value, expires_at, created_at, updated_at FROM kv_store WHERE key = ?`

func (q *Queries) KVGet(ctx context.Context, key string) (KvStore, error) {
	var i KvStore
	err := q.db.QueryRowContext(ctx, kvGet, key).Scan(&i.Key, &i.Value, &i.ExpiresAt, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const kvSet = `
INSERT INTO kv_store (key, value, expires_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at`

type KVSetParams struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

func (q *Queries) KVSet(ctx context.Context, arg KVSetParams) error {
	_, err := q.db.ExecContext(ctx, kvSet, arg.Key, arg.Value, arg.ExpiresAt, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const kvDelete = `DELETE FROM kv_store WHERE key = ?`

func (q *Queries) KVDelete(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, kvDelete, key)
	return err
}

const kvListKeys = `
SELECT key FROM kv_store
WHERE expires_at IS NULL OR expires_at >= ?
ORDER BY key`

func (q *Queries) KVListKeys(ctx context.Context, now sql.NullInt64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, kvListKeys, now)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	return items, rows.Err()
}

const kvSweepExpired = `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at < ?`

func (q *Queries) KVSweepExpired(ctx context.Context, now sql.NullInt64) error {
	_, err := q.db.ExecContext(ctx, kvSweepExpired, now)
	return err
}

const getOrder = `SELECT id, order_no, party, status, document, created_at, updated_at FROM orders WHERE id = ?`

func (q *Queries) GetOrder(ctx context.Context, id string) (Order, error) {
	var i Order
	err := q.db.QueryRowContext(ctx, getOrder, id).Scan(
		&i.ID, &i.OrderNo, &i.Party, &i.Status, &i.Document, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

const listOrders = `SELECT id, order_no, party, status, document, created_at, updated_at FROM orders ORDER BY updated_at DESC, id`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.QueryContext(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Order
	for rows.Next() {
		var i Order
		if err := rows.Scan(&i.ID, &i.OrderNo, &i.Party, &i.Status, &i.Document, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const saveOrder = `
INSERT INTO orders (id, order_no, party, status, document, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    order_no = excluded.order_no,
    party = excluded.party,
    status = excluded.status,
    document = excluded.document,
    updated_at = excluded.updated_at`

type SaveOrderParams struct {
	ID        string
	OrderNo   string
	Party     string
	Status    string
	Document  []byte
	CreatedAt int64
	UpdatedAt int64
}

func (q *Queries) SaveOrder(ctx context.Context, arg SaveOrderParams) error {
	_, err := q.db.ExecContext(ctx, saveOrder,
		arg.ID, arg.OrderNo, arg.Party, arg.Status, arg.Document, arg.CreatedAt, arg.UpdatedAt,
	)
	return err
}

const deleteOrder = `DELETE FROM orders WHERE id = ?`

func (q *Queries) DeleteOrder(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const insertNotification = `
INSERT INTO notifications (level, source, order_id, message, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type InsertNotificationParams struct {
	Level     string
	Source    string
	OrderID   string
	Message   string
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, insertNotification,
		arg.Level, arg.Source, arg.OrderID, arg.Message, arg.CreatedAt,
	).Scan(&id)
	return id, err
}

const listNotifications = `SELECT id, level, source, order_id, message, created_at FROM notifications ORDER BY created_at DESC, id DESC`

func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	return q.scanNotifications(ctx, listNotifications)
}

const listNotificationsForOrder = `SELECT id, level, source, order_id, message, created_at FROM notifications WHERE order_id = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListNotificationsForOrder(ctx context.Context, orderID string) ([]Notification, error) {
	return q.scanNotifications(ctx, listNotificationsForOrder, orderID)
}

func (q *Queries) scanNotifications(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.Level, &i.Source, &i.OrderID, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteAllNotifications = `DELETE FROM notifications`

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countNotifications).Scan(&n)
	return n, err
}
