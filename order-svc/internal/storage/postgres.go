package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tableside/order-svc/internal/domain"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique index hit.
const uniqueViolation = "23505"

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dishes (
			id          TEXT PRIMARY KEY,
			position    BIGSERIAL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(10,2) NOT NULL,
			category    TEXT NOT NULL,
			image_url   TEXT NOT NULL DEFAULT '',
			dietary     TEXT[] NOT NULL DEFAULT '{}',
			spice_level TEXT,
			style       TEXT,
			ingredients TEXT[] NOT NULL DEFAULT '{}',
			allergens   TEXT[] NOT NULL DEFAULT '{}',
			available   BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id           TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			icon         TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id            TEXT PRIMARY KEY,
			code          TEXT NOT NULL,
			table_number  INTEGER NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			notes         TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL,
			status_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS orders_active_code
			ON orders (code) WHERE status IN ('pending', 'confirmed', 'preparing', 'ready')`,
		"CREATE INDEX IF NOT EXISTS orders_status_created ON orders (status, created_at)",
		`CREATE TABLE IF NOT EXISTS order_items (
			id         TEXT PRIMARY KEY,
			order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			dish       JSONB NOT NULL,
			quantity   INTEGER NOT NULL CHECK (quantity > 0),
			note       TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

const dishColumns = `id, name, description, price, category, image_url, dietary, spice_level, style,
	ingredients, allergens, available, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (*domain.Dish, error) {
	var (
		dish                            domain.Dish
		spiceLevel, style               sql.NullString
		dietary, ingredients, allergens pq.StringArray
	)
	if err := row.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price, &dish.Category, &dish.ImageURL,
		&dietary, &spiceLevel, &style, &ingredients, &allergens, &dish.Available, &dish.UpdatedAt); err != nil {
		return nil, err
	}
	dish.Dietary = []string(dietary)
	dish.Ingredients = []string(ingredients)
	dish.Allergens = []string(allergens)
	if spiceLevel.Valid {
		level := domain.SpiceLevel(spiceLevel.String)
		dish.SpiceLevel = &level
	}
	if style.Valid {
		s := domain.Style(style.String)
		dish.Style = &s
	}
	return &dish, nil
}

func (r *PostgresRepository) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+dishColumns+" FROM dishes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	var dishes []domain.Dish
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, *dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	dish, err := scanDish(r.DB.QueryRowContext(ctx, "SELECT "+dishColumns+" FROM dishes WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDishNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get dish %s: %w", id, err)
	}
	return dish, nil
}

func (r *PostgresRepository) UpsertDish(ctx context.Context, dish *domain.Dish) error {
	var spiceLevel, style sql.NullString
	if dish.SpiceLevel != nil {
		spiceLevel = sql.NullString{String: string(*dish.SpiceLevel), Valid: true}
	}
	if dish.Style != nil {
		style = sql.NullString{String: string(*dish.Style), Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO dishes (id, name, description, price, category, image_url, dietary, spice_level, style,
			ingredients, allergens, available, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
			category = EXCLUDED.category, image_url = EXCLUDED.image_url, dietary = EXCLUDED.dietary,
			spice_level = EXCLUDED.spice_level, style = EXCLUDED.style, ingredients = EXCLUDED.ingredients,
			allergens = EXCLUDED.allergens, available = EXCLUDED.available, updated_at = EXCLUDED.updated_at`,
		dish.ID, dish.Name, dish.Description, dish.Price, dish.Category, dish.ImageURL,
		pq.StringArray(dish.Dietary), spiceLevel, style,
		pq.StringArray(dish.Ingredients), pq.StringArray(dish.Allergens), dish.Available, dish.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert dish %s: %w", dish.ID, err)
	}
	return nil
}

func (r *PostgresRepository) DeleteDish(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM dishes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete dish %s: %w", id, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: %s", domain.ErrDishNotFound, id)
	}
	return nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]domain.CategoryInfo, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, display_name, icon FROM categories")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var infos []domain.CategoryInfo
	for rows.Next() {
		var info domain.CategoryInfo
		if err := rows.Scan(&info.ID, &info.DisplayName, &info.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (r *PostgresRepository) UpsertCategory(ctx context.Context, info domain.CategoryInfo) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO categories (id, display_name, icon) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, icon = EXCLUDED.icon`,
		info.ID, info.DisplayName, info.Icon)
	if err != nil {
		return fmt.Errorf("upsert category %s: %w", info.ID, err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *PostgresRepository) Insert(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, code, table_number, customer_name, notes, status, created_at, updated_at, status_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.Code, order.TableNumber, order.CustomerName, order.Notes, order.Status,
		order.CreatedAt, order.UpdatedAt, order.StatusAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrCodeTaken, order.Code)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx execer, order *domain.Order) error {
	for position, item := range order.Items {
		dish, err := json.Marshal(item.Dish)
		if err != nil {
			return fmt.Errorf("encode dish snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, dish, quantity, note, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, order.ID, position, string(dish), item.Quantity, item.Note, item.Status, item.CreatedAt); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// Update locks the order row for the duration of fn and rewrites the order
// and its items when fn succeeds.
func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := r.loadOrder(ctx, tx, "WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET notes = $1, status = $2, updated_at = $3, status_at = $4 WHERE id = $5`,
		order.Notes, order.Status, order.UpdatedAt, order.StatusAt, order.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", domain.ErrCodeTaken, order.Code)
		}
		return nil, fmt.Errorf("update order %s: %w", order.Code, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", order.ID); err != nil {
		return nil, fmt.Errorf("replace items of %s: %w", order.Code, err)
	}
	if err := insertItems(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// FindByCode prefers the active order; otherwise it returns the most recent.
func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	order, err := r.loadOrder(ctx, r.DB, `
		WHERE code = $1
		ORDER BY status IN ('pending', 'confirmed', 'preparing', 'ready') DESC, created_at DESC
		LIMIT 1`, code)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, code)
	}
	return order, nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at", status)
	if err != nil {
		return nil, fmt.Errorf("list %s orders: %w", status, err)
	}
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := loadItems(ctx, r.DB, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

const orderColumns = "id, code, table_number, customer_name, notes, status, created_at, updated_at, status_at"

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(&order.ID, &order.Code, &order.TableNumber, &order.CustomerName, &order.Notes,
		&order.Status, &order.CreatedAt, &order.UpdatedAt, &order.StatusAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// loadOrder returns nil without error when no row matches.
func (r *PostgresRepository) loadOrder(ctx context.Context, q execer, clause string, arg any) (*domain.Order, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders "+clause, arg)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		return nil, rows.Err()
	}
	order, err := scanOrder(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	items, err := loadItems(ctx, q, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func loadItems(ctx context.Context, q execer, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, dish, quantity, note, status, created_at
		FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load items of %s: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item domain.OrderItem
			dish []byte
		)
		if err := rows.Scan(&item.ID, &dish, &item.Quantity, &item.Note, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := json.Unmarshal(dish, &item.Dish); err != nil {
			return nil, fmt.Errorf("decode dish snapshot: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
