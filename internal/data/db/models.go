package db

import "database/sql"

type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

type Order struct {
	ID        string
	OrderNo   string
	Party     string
	Status    string
	Document  []byte
	CreatedAt int64
	UpdatedAt int64
}

type Notification struct {
	ID        int64
	Level     string
	Source    string
	OrderID   string
	Message   string
	CreatedAt int64
}
