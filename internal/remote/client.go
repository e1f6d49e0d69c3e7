// Package remote is the boundary to the relational system of record. The
// store only depends on the Client call/callback shape defined here.
package remote

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrTableMismatch = errors.New("record type does not match table")
	ErrUnknownTable  = errors.New("unknown table")
)

type Table string

const (
	TableProperties    Table = "properties"
	TableUnits         Table = "units"
	TableTenants       Table = "tenants"
	TableManagers      Table = "managers"
	TablePayments      Table = "payments"
	TableNotifications Table = "notifications"
)

// Tables lists every table the store mirrors.
var Tables = []Table{
	TableProperties,
	TableUnits,
	TableTenants,
	TableManagers,
	TablePayments,
	TableNotifications,
}

type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent reports one committed write on a watched table.
type ChangeEvent struct {
	Table Table      `json:"table"`
	Kind  ChangeKind `json:"kind"`
	ID    string     `json:"id"`
	At    time.Time  `json:"at"`
}

// Client is the per-table CRUD surface plus the change subscription.
type Client interface {
	// Select loads every row of table into dest, a pointer to a slice of
	// the table's model.
	Select(ctx context.Context, table Table, dest any) error
	Insert(ctx context.Context, table Table, record any) error
	// Update assigns fields (column name -> value, nil clears) on one row.
	Update(ctx context.Context, table Table, id string, fields map[string]any) error
	Delete(ctx context.Context, table Table, id string) error
	// SubscribeAll delivers every change on any watched table, whoever
	// caused it. Delivery is at-least-once.
	SubscribeAll(handler func(ChangeEvent)) (unsubscribe func())
}
