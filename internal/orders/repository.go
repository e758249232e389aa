package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	_ "github.com/lib/pq"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this idempotency key already exists")
)

type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// Order is the durable record of a finalized checkout.
type Order struct {
	Number         string
	IdempotencyKey string
	ShopperID      string
	TotalAmount    float64
	Currency       string
	Status         OrderStatus
	Items          []checkout.SnapshotItem
	ShippingInfo   checkout.ShippingInfo
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the storage contract the order service depends on.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order *Order) error
	GetOrderByNumber(ctx context.Context, number string) (*Order, error)
	ListOrdersByShopperID(ctx context.Context, shopperID string) ([]*Order, error)
	RunMigrations(*Credentials) error
	Close() error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) InsertOrder(ctx context.Context, order *Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	shippingJSON, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping info: %w", err)
	}

	query := `INSERT INTO orders (number, idempotency_key, shopper_id, total_amount, currency, status, items, shipping_info, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.Number,
		order.IdempotencyKey,
		order.ShopperID,
		order.TotalAmount,
		order.Currency,
		order.Status,
		itemsJSON,
		shippingJSON)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetOrderByNumber(ctx context.Context, number string) (*Order, error) {
	query := `SELECT number, idempotency_key, shopper_id, total_amount, currency, status, items, shipping_info, created_at, updated_at
	          FROM orders WHERE number = $1`

	row := r.db.QueryRowContext(ctx, query, number)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by number: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByShopperID(ctx context.Context, shopperID string) ([]*Order, error) {
	query := `SELECT number, idempotency_key, shopper_id, total_amount, currency, status, items, shipping_info, created_at, updated_at
	          FROM orders WHERE shopper_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, shopperID)
	if err != nil {
		return nil, fmt.Errorf("query orders by shopper id: %w", err)
	}
	defer rows.Close()

	var result []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var order Order
	var itemsJSON, shippingJSON []byte
	if err := row.Scan(
		&order.Number,
		&order.IdempotencyKey,
		&order.ShopperID,
		&order.TotalAmount,
		&order.Currency,
		&order.Status,
		&itemsJSON,
		&shippingJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &order.ShippingInfo); err != nil {
		return nil, fmt.Errorf("unmarshal shipping info: %w", err)
	}

	return &order, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
