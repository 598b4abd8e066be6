package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TemirB/storefront-bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	wallet  TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS admins (
	admin_id BIGINT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	wallet   TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS categories (
	category_number BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS products (
	product_number BIGSERIAL PRIMARY KEY,
	admin_id       BIGINT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL DEFAULT '0',
	image_ref      TEXT NOT NULL DEFAULT '',
	download_ref   TEXT NOT NULL DEFAULT '',
	keys_ref       TEXT NOT NULL DEFAULT '',
	quantity       INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	category       TEXT NOT NULL DEFAULT 'Default Category'
);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);
CREATE SEQUENCE IF NOT EXISTS order_numbers START WITH 100001;
CREATE TABLE IF NOT EXISTS orders (
	order_number   BIGINT PRIMARY KEY,
	buyer_id       BIGINT NOT NULL,
	buyer_name     TEXT NOT NULL DEFAULT '',
	product_number BIGINT NOT NULL,
	product_name   TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL DEFAULT '0',
	download_link  TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	status         TEXT NOT NULL DEFAULT 'created',
	payment_path   TEXT NOT NULL DEFAULT '',
	paidmethod     TEXT NOT NULL DEFAULT 'NO',
	payment_ref    TEXT NOT NULL DEFAULT '',
	bonus_units    INTEGER NOT NULL DEFAULT 0,
	delivered_keys TEXT NOT NULL DEFAULT '',
	comment        TEXT NOT NULL DEFAULT '',
	payment_selected_at TIMESTAMPTZ
);
ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_selected_at TIMESTAMPTZ;
CREATE INDEX IF NOT EXISTS orders_buyer_idx ON orders (buyer_id);
CREATE INDEX IF NOT EXISTS orders_payment_ref_idx ON orders (payment_ref);
CREATE TABLE IF NOT EXISTS payment_methods (
	name      TEXT PRIMARY KEY,
	admin_id  BIGINT NOT NULL,
	token     TEXT NOT NULL DEFAULT '',
	secret    TEXT NOT NULL DEFAULT '',
	activated TEXT NOT NULL DEFAULT 'NO'
);
CREATE TABLE IF NOT EXISTS promotions (
	name       TEXT PRIMARY KEY,
	active     BOOLEAN NOT NULL DEFAULT FALSE,
	sold       INTEGER NOT NULL DEFAULT 0,
	max_count  INTEGER NOT NULL DEFAULT 0,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS product_keys (
	id             BIGSERIAL PRIMARY KEY,
	product_number BIGINT NOT NULL,
	key_value      TEXT NOT NULL,
	order_number   BIGINT,
	assigned_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS product_keys_free_idx ON product_keys (product_number) WHERE order_number IS NULL;
`

const pgOrderColumns = `order_number, buyer_id, buyer_name, product_number, product_name, price, download_link,
	created_at, status, payment_path, paidmethod, payment_ref, bonus_units, delivered_keys, comment`

const pgProductColumns = `product_number, admin_id, name, description, price, image_ref, download_ref, keys_ref, quantity, category`

// Repo is the Postgres backend. Every call checks a connection out of the
// pool, so a failed statement never leaves shared state behind.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if logger != nil {
		cfg.ConnConfig.Tracer = newTraceLog(logger)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("ping", err)
	}
	return pool, nil
}

func (r *Repo) Close() { r.pool.Close() }

func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, pgSchema); err != nil {
		return pgErr("migrate", err)
	}
	return nil
}

// pgErr maps driver errors onto the domain taxonomy.
func pgErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgE *pgconn.PgError
	if errors.As(err, &pgE) {
		switch pgE.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, domain.ErrConflict, pgE.ConstraintName)
		case "23514":
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgE.ConstraintName)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if isContextErr(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return unavailable(op, err)
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, name, wallet) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, u.ID, u.Name, u.Wallet.String())
	return pgErr("upsert user", err)
}

func (r *Repo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u      domain.User
		wallet string
	)
	err := r.pool.QueryRow(ctx, `SELECT user_id, name, wallet FROM users WHERE user_id=$1`, id).
		Scan(&u.ID, &u.Name, &wallet)
	if err != nil {
		return nil, pgErr("get user", err)
	}
	u.Wallet = parseMoney(wallet)
	return &u, nil
}

func (r *Repo) CreditUserWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return decimal.Zero, pgErr("credit wallet: begin", err)
	}
	defer tx.Rollback(ctx)

	var wallet string
	if err := tx.QueryRow(ctx, `SELECT wallet FROM users WHERE user_id=$1 FOR UPDATE`, id).Scan(&wallet); err != nil {
		return decimal.Zero, pgErr("credit wallet", err)
	}
	next := parseMoney(wallet).Add(amount)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("credit wallet: %w: balance would be negative", domain.ErrInvalidInput)
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET wallet=$1 WHERE user_id=$2`, next.String(), id); err != nil {
		return decimal.Zero, pgErr("credit wallet", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, pgErr("credit wallet: commit", err)
	}
	return next, nil
}

func (r *Repo) UpsertAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (admin_id, name, wallet) VALUES ($1, $2, $3)
		ON CONFLICT (admin_id) DO NOTHING
	`, a.ID, a.Name, a.Wallet.String())
	return pgErr("upsert admin", err)
}

func (r *Repo) ListAdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT admin_id FROM admins ORDER BY admin_id`)
	if err != nil {
		return nil, pgErr("list admins", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	return ids, pgErr("list admins", err)
}

func (r *Repo) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if p.Category == "" {
		p.Category = domain.DefaultCategory
	}
	if p.Quantity < 0 {
		return 0, fmt.Errorf("create product: %w: negative quantity", domain.ErrInvalidInput)
	}
	var number int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (admin_id, name, description, price, image_ref, download_ref, keys_ref, quantity, category)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING product_number
	`, p.AdminID, p.Name, p.Description, p.Price.String(), p.ImageRef, p.DownloadRef, p.KeysRef, p.Quantity, p.Category).
		Scan(&number)
	if err != nil {
		return 0, pgErr("create product", err)
	}
	return number, nil
}

func scanPgProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	err := row.Scan(&p.Number, &p.AdminID, &p.Name, &p.Description, &price, &p.ImageRef,
		&p.DownloadRef, &p.KeysRef, &p.Quantity, &p.Category)
	p.Price = parseMoney(price)
	return p, err
}

func (r *Repo) GetProduct(ctx context.Context, number int64) (*domain.Product, error) {
	p, err := scanPgProduct(r.pool.QueryRow(ctx,
		`SELECT `+pgProductColumns+` FROM products WHERE product_number=$1`, number))
	if err != nil {
		return nil, pgErr("get product", err)
	}
	return &p, nil
}

func (r *Repo) listProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, pgErr(op, err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanPgProduct(rows)
		if err != nil {
			return nil, pgErr(op, err)
		}
		out = append(out, p)
	}
	return out, pgErr(op, rows.Err())
}

func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return r.listProducts(ctx, "list products",
		`SELECT `+pgProductColumns+` FROM products ORDER BY product_number`)
}

func (r *Repo) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.listProducts(ctx, "list products by category",
		`SELECT `+pgProductColumns+` FROM products WHERE category=$1 ORDER BY product_number`, category)
}

func (r *Repo) UpdateProductField(ctx context.Context, number int64, field domain.ProductField, value any) error {
	col, v, err := fieldValue(field, value)
	if err != nil {
		return err
	}
	// col comes from a fixed whitelist; the value is always bound.
	tag, err := r.pool.Exec(ctx, `UPDATE products SET `+col+`=$1 WHERE product_number=$2`, v, number)
	if err != nil {
		return pgErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %d: %w", number, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, number int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE product_number=$1`, number)
	if err != nil {
		return pgErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete product %d: %w", number, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) AddProductKeys(ctx context.Context, number int64, keys []string) (int, error) {
	keys = cleanKeys(keys)
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, pgErr("add keys: begin", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_number=$1)`, number).Scan(&exists); err != nil {
		return 0, pgErr("add keys", err)
	}
	if !exists {
		return 0, fmt.Errorf("add keys %d: %w", number, domain.ErrProductNotFound)
	}

	if len(keys) > 0 {
		batch := &pgx.Batch{}
		for _, k := range keys {
			batch.Queue(`INSERT INTO product_keys (product_number, key_value) VALUES ($1, $2)`, number, k)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, pgErr("add keys", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, pgErr("add keys: commit", err)
	}
	return len(keys), nil
}

func (r *Repo) CountAvailableKeys(ctx context.Context, number int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM product_keys WHERE product_number=$1 AND order_number IS NULL`, number).Scan(&n)
	return n, pgErr("count keys", err)
}

func (r *Repo) CreateCategory(ctx context.Context, name string) (int64, error) {
	var number int64
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING category_number`, name).Scan(&number)
	if err != nil {
		return 0, pgErr("create category", err)
	}
	return number, nil
}

func (r *Repo) GetCategory(ctx context.Context, number int64) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT category_number, name FROM categories WHERE category_number=$1`, number).
		Scan(&c.Number, &c.Name)
	if err != nil {
		return nil, pgErr("get category", err)
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT category_number, name FROM categories ORDER BY category_number`)
	if err != nil {
		return nil, pgErr("list categories", err)
	}
	cats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.Number, &c.Name)
		return c, err
	})
	return cats, pgErr("list categories", err)
}

func (r *Repo) RenameCategory(ctx context.Context, number int64, name string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, pgErr("rename category: begin", err)
	}
	defer tx.Rollback(ctx)

	var old string
	if err := tx.QueryRow(ctx, `SELECT name FROM categories WHERE category_number=$1 FOR UPDATE`, number).Scan(&old); err != nil {
		return 0, pgErr("rename category", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE categories SET name=$1 WHERE category_number=$2`, name, number); err != nil {
		return 0, pgErr("rename category", err)
	}
	tag, err := tx.Exec(ctx, `UPDATE products SET category=$1 WHERE category=$2`, name, old)
	if err != nil {
		return 0, pgErr("rename category: products", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, pgErr("rename category: commit", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repo) DeleteCategory(ctx context.Context, number int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE category_number=$1`, number)
	if err != nil {
		return pgErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category %d: %w", number, domain.ErrNotFound)
	}
	return nil
}

func scanPgOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		price  string
		status string
		keys   string
	)
	err := row.Scan(&o.Number, &o.BuyerID, &o.BuyerName, &o.ProductNumber, &o.ProductName, &price,
		&o.DownloadLink, &o.CreatedAt, &status, &o.PaymentPath, &o.PaidMethod, &o.PaymentRef,
		&o.BonusUnits, &keys, &o.Comment)
	o.Price = parseMoney(price)
	o.Status = domain.OrderStatus(status)
	o.Keys = splitKeys(keys)
	return o, err
}

func (r *Repo) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	created, err := scanPgOrder(r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_number, buyer_id, buyer_name, product_number, product_name, price,
			download_link, created_at, status, paidmethod)
		VALUES (nextval('order_numbers'), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+pgOrderColumns,
		o.BuyerID, o.BuyerName, o.ProductNumber, o.ProductName, o.Price.String(),
		o.DownloadLink, o.CreatedAt, string(domain.StatusCreated), domain.Unpaid,
	))
	if err != nil {
		return nil, pgErr("create order", err)
	}
	return &created, nil
}

func (r *Repo) GetOrder(ctx context.Context, number int64) (*domain.Order, error) {
	o, err := scanPgOrder(r.pool.QueryRow(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE order_number=$1`, number))
	if err != nil {
		return nil, pgErr("get order", err)
	}
	return &o, nil
}

func (r *Repo) GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error) {
	if ref == "" {
		return nil, fmt.Errorf("get order by ref: %w", domain.ErrNotFound)
	}
	o, err := scanPgOrder(r.pool.QueryRow(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE payment_ref=$1`, ref))
	if err != nil {
		return nil, pgErr("get order by ref", err)
	}
	return &o, nil
}

func (r *Repo) ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE buyer_id=$1 ORDER BY order_number DESC`, buyerID)
	if err != nil {
		return nil, pgErr("list orders", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanPgOrder(rows)
		if err != nil {
			return nil, pgErr("list orders", err)
		}
		out = append(out, o)
	}
	return out, pgErr("list orders", rows.Err())
}

// lockOrder reads the order's status and product under a row lock.
func lockOrder(ctx context.Context, tx pgx.Tx, number int64) (domain.OrderStatus, int64, int, error) {
	var (
		status        string
		productNumber int64
		bonus         int
	)
	err := tx.QueryRow(ctx,
		`SELECT status, product_number, bonus_units FROM orders WHERE order_number=$1 FOR UPDATE`, number).
		Scan(&status, &productNumber, &bonus)
	return domain.OrderStatus(status), productNumber, bonus, err
}

func (r *Repo) SetOrderPayment(ctx context.Context, number int64, path, ref string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return pgErr("set payment: begin", err)
	}
	defer tx.Rollback(ctx)

	status, _, _, err := lockOrder(ctx, tx, number)
	if err != nil {
		return pgErr("set payment", err)
	}
	if !domain.CanTransition(status, domain.StatusAwaitingPayment) {
		return fmt.Errorf("set payment %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET payment_path=$1, payment_ref=$2, status=$3, payment_selected_at=now() WHERE order_number=$4`,
		path, ref, string(domain.StatusAwaitingPayment), number); err != nil {
		return pgErr("set payment", err)
	}
	return pgErr("set payment: commit", tx.Commit(ctx))
}

func (r *Repo) MarkOrderPaid(ctx context.Context, number int64, method, promotion string) (*domain.PaidOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, pgErr("mark paid: begin", err)
	}
	defer tx.Rollback(ctx)

	status, productNumber, _, err := lockOrder(ctx, tx, number)
	if err != nil {
		return nil, pgErr("mark paid", err)
	}
	if status == domain.StatusAbandoned {
		return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrOrderExpired)
	}
	if !domain.CanTransition(status, domain.StatusPaid) {
		return nil, fmt.Errorf("mark paid %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE products SET quantity = quantity - 1 WHERE product_number=$1 AND quantity > 0`, productNumber)
	if err != nil {
		return nil, pgErr("mark paid: inventory", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_number=$1)`, productNumber).Scan(&exists); err != nil {
			return nil, pgErr("mark paid: inventory", err)
		}
		if !exists {
			return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrSoldOut)
	}

	bonus := 0
	if promotion != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE promotions SET sold = sold + 1, active = (sold + 1 < max_count)
			WHERE name=$1 AND active AND sold < max_count
		`, promotion)
		if err != nil {
			return nil, pgErr("mark paid: promotion", err)
		}
		if tag.RowsAffected() == 1 {
			bonus = 1
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$1, paidmethod=$2, bonus_units=$3 WHERE order_number=$4`,
		string(domain.StatusPaid), method, bonus, number); err != nil {
		return nil, pgErr("mark paid", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgErr("mark paid: commit", err)
	}

	o, err := r.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	return &domain.PaidOutcome{Order: o, BonusGranted: bonus > 0}, nil
}

func (r *Repo) FulfillOrder(ctx context.Context, number int64) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, pgErr("fulfill: begin", err)
	}
	defer tx.Rollback(ctx)

	status, productNumber, bonus, err := lockOrder(ctx, tx, number)
	if err != nil {
		return nil, pgErr("fulfill", err)
	}
	if !domain.CanTransition(status, domain.StatusFulfilled) {
		return nil, fmt.Errorf("fulfill %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}

	rows, err := tx.Query(ctx, `
		UPDATE product_keys SET order_number=$1, assigned_at=now()
		WHERE id IN (
			SELECT id FROM product_keys
			WHERE product_number=$2 AND order_number IS NULL
			ORDER BY id LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING key_value
	`, number, productNumber, 1+bonus)
	if err != nil {
		return nil, pgErr("fulfill: claim keys", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, pgErr("fulfill: claim keys", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$1, delivered_keys=$2 WHERE order_number=$3`,
		string(domain.StatusFulfilled), joinKeys(keys), number); err != nil {
		return nil, pgErr("fulfill", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, pgErr("fulfill: commit", err)
	}
	return r.GetOrder(ctx, number)
}

func (r *Repo) SetOrderComment(ctx context.Context, number int64, comment string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET comment=$1 WHERE order_number=$2`, comment, number)
	if err != nil {
		return pgErr("set comment", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set comment %d: %w", number, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) DeleteOrder(ctx context.Context, number int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE order_number=$1`, number)
	if err != nil {
		return pgErr("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete order %d: %w", number, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) ExpireOrders(ctx context.Context, before time.Time) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE orders SET status=$1
		WHERE status IN ($2, $3) AND COALESCE(payment_selected_at, created_at) < $4
		RETURNING order_number
	`, string(domain.StatusAbandoned), string(domain.StatusCreated), string(domain.StatusAwaitingPayment), before)
	if err != nil {
		return nil, pgErr("expire orders", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	return ids, pgErr("expire orders", err)
}

func (r *Repo) CreatePaymentMethod(ctx context.Context, name string, adminID int64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_methods (name, admin_id) VALUES ($1, $2)`, name, adminID)
	return pgErr("create payment method", err)
}

func (r *Repo) GetPaymentMethod(ctx context.Context, name string) (*domain.PaymentMethod, error) {
	var (
		m         domain.PaymentMethod
		activated string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT name, admin_id, token, secret, activated FROM payment_methods WHERE name=$1`, name).
		Scan(&m.Name, &m.AdminID, &m.Token, &m.Secret, &activated)
	if err != nil {
		return nil, pgErr("get payment method", err)
	}
	m.Activated = activated == "YES"
	return &m, nil
}

func (r *Repo) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, admin_id, token, secret, activated FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, pgErr("list payment methods", err)
	}
	methods, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentMethod, error) {
		var (
			m         domain.PaymentMethod
			activated string
		)
		err := row.Scan(&m.Name, &m.AdminID, &m.Token, &m.Secret, &activated)
		m.Activated = activated == "YES"
		return m, err
	})
	return methods, pgErr("list payment methods", err)
}

func (r *Repo) UpdatePaymentMethod(ctx context.Context, m domain.PaymentMethod) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payment_methods SET admin_id=$1, token=$2, secret=$3, activated=$4 WHERE name=$5`,
		m.AdminID, m.Token, m.Secret, activatedFlag(m.Activated), m.Name)
	if err != nil {
		return pgErr("update payment method", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update payment method %q: %w", m.Name, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) DeletePaymentMethod(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_methods WHERE name=$1`, name)
	if err != nil {
		return pgErr("delete payment method", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete payment method %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) UpsertPromotion(ctx context.Context, p domain.Promotion) error {
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO promotions (name, active, sold, max_count, started_at) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name) DO UPDATE SET
		  active=EXCLUDED.active, sold=EXCLUDED.sold, max_count=EXCLUDED.max_count, started_at=EXCLUDED.started_at
	`, p.Name, p.Active, p.Sold, p.Max, p.StartedAt)
	return pgErr("upsert promotion", err)
}

func (r *Repo) GetPromotion(ctx context.Context, name string) (*domain.Promotion, error) {
	var p domain.Promotion
	err := r.pool.QueryRow(ctx,
		`SELECT name, active, sold, max_count, started_at FROM promotions WHERE name=$1`, name).
		Scan(&p.Name, &p.Active, &p.Sold, &p.Max, &p.StartedAt)
	if err != nil {
		return nil, pgErr("get promotion", err)
	}
	return &p, nil
}

func (r *Repo) SetPromotionActive(ctx context.Context, name string, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE promotions SET active=$1, started_at = CASE WHEN $1 THEN now() ELSE started_at END
		WHERE name=$2
	`, active, name)
	if err != nil {
		return pgErr("set promotion", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set promotion %q: %w", name, domain.ErrNotFound)
	}
	return nil
}

var _ domain.Repository = (*Repo)(nil)
