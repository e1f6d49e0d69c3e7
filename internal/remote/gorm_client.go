package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"gorm.io/gorm"
)

// GormClient implements Client over a gorm connection and announces every
// committed write on its Broker.
type GormClient struct {
	db      *gorm.DB
	broker  Broker
	timeout time.Duration
}

func NewGormClient(db *gorm.DB, broker Broker, timeout time.Duration) *GormClient {
	if broker == nil {
		broker = NewLocalBroker()
	}
	return &GormClient{db: db, broker: broker, timeout: timeout}
}

func (c *GormClient) Select(ctx context.Context, table Table, dest any) error {
	if _, err := modelFor(table); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.db.WithContext(ctx).Table(string(table)).Order("created_at ASC, id ASC").Find(dest).Error; err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

func (c *GormClient) Insert(ctx context.Context, table Table, record any) error {
	id, err := recordID(table, record)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	// BeforeCreate may have assigned the id.
	if id == "" {
		id, _ = recordID(table, record)
	}
	c.publish(ctx, ChangeEvent{Table: table, Kind: ChangeInsert, ID: id})
	return nil
}

func (c *GormClient) Update(ctx context.Context, table Table, id string, fields map[string]any) error {
	model, err := modelFor(table)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := c.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update %s %s: %w", table, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s %s: %w", table, id, ErrNotFound)
	}
	c.publish(ctx, ChangeEvent{Table: table, Kind: ChangeUpdate, ID: id})
	return nil
}

func (c *GormClient) Delete(ctx context.Context, table Table, id string) error {
	model, err := modelFor(table)
	if err != nil {
		return err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s %s: %w", table, id, ErrNotFound)
	}
	c.publish(ctx, ChangeEvent{Table: table, Kind: ChangeDelete, ID: id})
	return nil
}

func (c *GormClient) SubscribeAll(handler func(ChangeEvent)) func() {
	return c.broker.Subscribe(handler)
}

// Ping checks the underlying connection.
func (c *GormClient) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *GormClient) publish(ctx context.Context, ev ChangeEvent) {
	ev.At = time.Now().UTC()
	// The write is committed; a lost announcement only delays other readers.
	if err := c.broker.Publish(context.WithoutCancel(ctx), ev); err != nil {
		slog.Warn("change publish failed", "table", string(ev.Table), "op", string(ev.Kind), "error", err)
	}
}

func (c *GormClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func modelFor(table Table) (any, error) {
	switch table {
	case TableProperties:
		return &models.Property{}, nil
	case TableUnits:
		return &models.Unit{}, nil
	case TableTenants:
		return &models.Tenant{}, nil
	case TableManagers:
		return &models.Manager{}, nil
	case TablePayments:
		return &models.PaymentProof{}, nil
	case TableNotifications:
		return &models.Notification{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

func recordID(table Table, record any) (string, error) {
	var (
		id string
		ok bool
	)
	switch r := record.(type) {
	case *models.Property:
		id, ok = r.ID, table == TableProperties
	case *models.Unit:
		id, ok = r.ID, table == TableUnits
	case *models.Tenant:
		id, ok = r.ID, table == TableTenants
	case *models.Manager:
		id, ok = r.ID, table == TableManagers
	case *models.PaymentProof:
		id, ok = r.ID, table == TablePayments
	case *models.Notification:
		id, ok = r.ID, table == TableNotifications
	}
	if !ok {
		return "", fmt.Errorf("insert %s: %w (%T)", table, ErrTableMismatch, record)
	}
	return id, nil
}
