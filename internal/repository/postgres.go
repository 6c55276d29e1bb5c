package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/danielnero-bot/potential-goggles/internal/domain"
)

// Repository is the module's adapter to the backing store: order writes for
// the saga, order reads for the history view, and user resolution.
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
		MigrationsTable: "quickplate_schema_migrations",
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

// InsertOrder persists one order row and returns the store-assigned id.
func (r *Repository) InsertOrder(ctx context.Context, order *domain.Order) (string, error) {
	query := `INSERT INTO orders (user_id, restaurant_id, total_amount, status, delivery_address, payment_method, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())
	          RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		order.UserID,
		order.RestaurantID,
		order.TotalAmount,
		order.Status,
		order.DeliveryAddress,
		order.PaymentMethod,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func (r *Repository) InsertOrderItems(ctx context.Context, items []domain.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO order_items (order_id, menu_item_id, quantity, price) VALUES ")
	args := make([]interface{}, 0, len(items)*4)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, item.OrderID, item.MenuItemID, item.Quantity, item.Price)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// DeleteOrders removes orders by id in one statement. Line items go with them
// through the ON DELETE CASCADE on order_items.
func (r *Repository) DeleteOrders(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	query := `DELETE FROM orders WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(orderIDs)); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT o.id, o.user_id, o.restaurant_id, o.total_amount, o.status,
	                 o.delivery_address, o.payment_method, o.created_at,
	                 r.name, COALESCE(r.logo_url, '')
	          FROM orders o
	          JOIN restaurants r ON r.id = o.restaurant_id
	          WHERE o.user_id = $1
	          ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.RestaurantID,
			&o.TotalAmount,
			&o.Status,
			&o.DeliveryAddress,
			&o.PaymentMethod,
			&o.CreatedAt,
			&o.RestaurantName,
			&o.RestaurantLogoURL,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

// UserByToken resolves a bearer token to its user.
func (r *Repository) UserByToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT id, email FROM users WHERE api_token = $1`

	var u domain.User
	err := r.db.QueryRowContext(ctx, query, token).Scan(&u.ID, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user by token: %w", err)
	}
	return &u, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
