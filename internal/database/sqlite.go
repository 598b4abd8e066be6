package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TemirB/storefront-bot/internal/domain"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id INTEGER PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	wallet  TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS admins (
	admin_id INTEGER PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	wallet   TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS categories (
	category_number INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS products (
	product_number INTEGER PRIMARY KEY AUTOINCREMENT,
	admin_id       INTEGER NOT NULL,
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
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
INSERT OR IGNORE INTO counters (name, value) VALUES ('order_number', 100000);
CREATE TABLE IF NOT EXISTS orders (
	order_number   INTEGER PRIMARY KEY,
	buyer_id       INTEGER NOT NULL,
	buyer_name     TEXT NOT NULL DEFAULT '',
	product_number INTEGER NOT NULL,
	product_name   TEXT NOT NULL DEFAULT '',
	price          TEXT NOT NULL DEFAULT '0',
	download_link  TEXT NOT NULL DEFAULT '',
	created_at     INTEGER NOT NULL,
	status         TEXT NOT NULL DEFAULT 'created',
	payment_path   TEXT NOT NULL DEFAULT '',
	paidmethod     TEXT NOT NULL DEFAULT 'NO',
	payment_ref    TEXT NOT NULL DEFAULT '',
	bonus_units    INTEGER NOT NULL DEFAULT 0,
	delivered_keys TEXT NOT NULL DEFAULT '',
	comment        TEXT NOT NULL DEFAULT '',
	payment_selected_at INTEGER
);
CREATE INDEX IF NOT EXISTS orders_buyer_idx ON orders (buyer_id);
CREATE INDEX IF NOT EXISTS orders_payment_ref_idx ON orders (payment_ref);
CREATE TABLE IF NOT EXISTS payment_methods (
	name      TEXT PRIMARY KEY,
	admin_id  INTEGER NOT NULL,
	token     TEXT NOT NULL DEFAULT '',
	secret    TEXT NOT NULL DEFAULT '',
	activated TEXT NOT NULL DEFAULT 'NO'
);
CREATE TABLE IF NOT EXISTS promotions (
	name       TEXT PRIMARY KEY,
	active     INTEGER NOT NULL DEFAULT 0,
	sold       INTEGER NOT NULL DEFAULT 0,
	max_count  INTEGER NOT NULL DEFAULT 0,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS product_keys (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	product_number INTEGER NOT NULL,
	key_value      TEXT NOT NULL,
	order_number   INTEGER,
	assigned_at    INTEGER
);
CREATE INDEX IF NOT EXISTS product_keys_free_idx ON product_keys (product_number) WHERE order_number IS NULL;
`

// SQLite is the embedded backend. SQLite allows a single writer, so the pool
// is capped at one connection and callers queue on it instead of failing
// with SQLITE_BUSY.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("ping sqlite", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() { _ = s.db.Close() }

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return liteErr("migrate", err)
	}
	return s.addColumn(ctx, "orders", "payment_selected_at", "INTEGER")
}

// addColumn brings files created before a column existed up to date.
func (s *SQLite) addColumn(ctx context.Context, table, column, typ string) error {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name=?`, table, column).Scan(&n); err != nil {
		return liteErr("migrate: inspect "+table, err)
	}
	if n > 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, typ))
	return liteErr("migrate: add "+column, err)
}

func liteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var liteE *sqlite.Error
	if errors.As(err, &liteE) {
		switch liteE.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		}
		switch liteE.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN:
			return unavailable(op, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected turns a zero-row write into ErrNotFound.
func affected(op string, res sql.Result, err error) error {
	if err != nil {
		return liteErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return liteErr(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLite) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id, name, wallet) VALUES (?, ?, ?)`, u.ID, u.Name, u.Wallet.String())
	return liteErr("upsert user", err)
}

func (s *SQLite) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u      domain.User
		wallet string
	)
	err := s.db.QueryRowContext(ctx, `SELECT user_id, name, wallet FROM users WHERE user_id=?`, id).
		Scan(&u.ID, &u.Name, &wallet)
	if err != nil {
		return nil, liteErr("get user", err)
	}
	u.Wallet = parseMoney(wallet)
	return &u, nil
}

func (s *SQLite) CreditUserWallet(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, liteErr("credit wallet: begin", err)
	}
	defer tx.Rollback()

	var wallet string
	if err := tx.QueryRowContext(ctx, `SELECT wallet FROM users WHERE user_id=?`, id).Scan(&wallet); err != nil {
		return decimal.Zero, liteErr("credit wallet", err)
	}
	next := parseMoney(wallet).Add(amount)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("credit wallet: %w: balance would be negative", domain.ErrInvalidInput)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET wallet=? WHERE user_id=?`, next.String(), id); err != nil {
		return decimal.Zero, liteErr("credit wallet", err)
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, liteErr("credit wallet: commit", err)
	}
	return next, nil
}

func (s *SQLite) UpsertAdmin(ctx context.Context, a domain.Admin) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admins (admin_id, name, wallet) VALUES (?, ?, ?)`, a.ID, a.Name, a.Wallet.String())
	return liteErr("upsert admin", err)
}

func (s *SQLite) ListAdminIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT admin_id FROM admins ORDER BY admin_id`)
	if err != nil {
		return nil, liteErr("list admins", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, liteErr("list admins", err)
		}
		ids = append(ids, id)
	}
	return ids, liteErr("list admins", rows.Err())
}

func (s *SQLite) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if p.Category == "" {
		p.Category = domain.DefaultCategory
	}
	if p.Quantity < 0 {
		return 0, fmt.Errorf("create product: %w: negative quantity", domain.ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (admin_id, name, description, price, image_ref, download_ref, keys_ref, quantity, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.AdminID, p.Name, p.Description, p.Price.String(), p.ImageRef, p.DownloadRef, p.KeysRef, p.Quantity, p.Category)
	if err != nil {
		return 0, liteErr("create product", err)
	}
	id, err := res.LastInsertId()
	return id, liteErr("create product", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLiteProduct(row scanner) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	err := row.Scan(&p.Number, &p.AdminID, &p.Name, &p.Description, &price, &p.ImageRef,
		&p.DownloadRef, &p.KeysRef, &p.Quantity, &p.Category)
	p.Price = parseMoney(price)
	return p, err
}

func (s *SQLite) GetProduct(ctx context.Context, number int64) (*domain.Product, error) {
	p, err := scanLiteProduct(s.db.QueryRowContext(ctx,
		`SELECT `+pgProductColumns+` FROM products WHERE product_number=?`, number))
	if err != nil {
		return nil, liteErr("get product", err)
	}
	return &p, nil
}

func (s *SQLite) listProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, liteErr(op, err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanLiteProduct(rows)
		if err != nil {
			return nil, liteErr(op, err)
		}
		out = append(out, p)
	}
	return out, liteErr(op, rows.Err())
}

func (s *SQLite) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listProducts(ctx, "list products",
		`SELECT `+pgProductColumns+` FROM products ORDER BY product_number`)
}

func (s *SQLite) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.listProducts(ctx, "list products by category",
		`SELECT `+pgProductColumns+` FROM products WHERE category=? ORDER BY product_number`, category)
}

func (s *SQLite) UpdateProductField(ctx context.Context, number int64, field domain.ProductField, value any) error {
	col, v, err := fieldValue(field, value)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE products SET `+col+`=? WHERE product_number=?`, v, number)
	return affected(fmt.Sprintf("update product %d", number), res, err)
}

func (s *SQLite) DeleteProduct(ctx context.Context, number int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE product_number=?`, number)
	return affected(fmt.Sprintf("delete product %d", number), res, err)
}

func (s *SQLite) AddProductKeys(ctx context.Context, number int64, keys []string) (int, error) {
	keys = cleanKeys(keys)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, liteErr("add keys: begin", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_number=?)`, number).Scan(&exists); err != nil {
		return 0, liteErr("add keys", err)
	}
	if !exists {
		return 0, fmt.Errorf("add keys %d: %w", number, domain.ErrProductNotFound)
	}
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_keys (product_number, key_value) VALUES (?, ?)`, number, k); err != nil {
			return 0, liteErr("add keys", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, liteErr("add keys: commit", err)
	}
	return len(keys), nil
}

func (s *SQLite) CountAvailableKeys(ctx context.Context, number int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM product_keys WHERE product_number=? AND order_number IS NULL`, number).Scan(&n)
	return n, liteErr("count keys", err)
}

func (s *SQLite) CreateCategory(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return 0, liteErr("create category", err)
	}
	id, err := res.LastInsertId()
	return id, liteErr("create category", err)
}

func (s *SQLite) GetCategory(ctx context.Context, number int64) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRowContext(ctx, `SELECT category_number, name FROM categories WHERE category_number=?`, number).
		Scan(&c.Number, &c.Name)
	if err != nil {
		return nil, liteErr("get category", err)
	}
	return &c, nil
}

func (s *SQLite) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category_number, name FROM categories ORDER BY category_number`)
	if err != nil {
		return nil, liteErr("list categories", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Number, &c.Name); err != nil {
			return nil, liteErr("list categories", err)
		}
		out = append(out, c)
	}
	return out, liteErr("list categories", rows.Err())
}

func (s *SQLite) RenameCategory(ctx context.Context, number int64, name string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, liteErr("rename category: begin", err)
	}
	defer tx.Rollback()

	var old string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM categories WHERE category_number=?`, number).Scan(&old); err != nil {
		return 0, liteErr("rename category", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE categories SET name=? WHERE category_number=?`, name, number); err != nil {
		return 0, liteErr("rename category", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE products SET category=? WHERE category=?`, name, old)
	if err != nil {
		return 0, liteErr("rename category: products", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, liteErr("rename category: products", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, liteErr("rename category: commit", err)
	}
	return int(n), nil
}

func (s *SQLite) DeleteCategory(ctx context.Context, number int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE category_number=?`, number)
	return affected(fmt.Sprintf("delete category %d", number), res, err)
}

func scanLiteOrder(row scanner) (domain.Order, error) {
	var (
		o       domain.Order
		price   string
		status  string
		keys    string
		created int64
	)
	err := row.Scan(&o.Number, &o.BuyerID, &o.BuyerName, &o.ProductNumber, &o.ProductName, &price,
		&o.DownloadLink, &created, &status, &o.PaymentPath, &o.PaidMethod, &o.PaymentRef,
		&o.BonusUnits, &keys, &o.Comment)
	o.Price = parseMoney(price)
	o.CreatedAt = time.Unix(0, created).UTC()
	o.Status = domain.OrderStatus(status)
	o.Keys = splitKeys(keys)
	return o, err
}

func (s *SQLite) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, liteErr("create order: begin", err)
	}
	defer tx.Rollback()

	var number int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE counters SET value = value + 1 WHERE name='order_number' RETURNING value`).Scan(&number); err != nil {
		return nil, liteErr("create order: reserve number", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, buyer_id, buyer_name, product_number, product_name, price,
			download_link, created_at, status, paidmethod)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, number, o.BuyerID, o.BuyerName, o.ProductNumber, o.ProductName, o.Price.String(),
		o.DownloadLink, o.CreatedAt.UnixNano(), string(domain.StatusCreated), domain.Unpaid); err != nil {
		return nil, liteErr("create order", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, liteErr("create order: commit", err)
	}
	return s.GetOrder(ctx, number)
}

func (s *SQLite) GetOrder(ctx context.Context, number int64) (*domain.Order, error) {
	o, err := scanLiteOrder(s.db.QueryRowContext(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE order_number=?`, number))
	if err != nil {
		return nil, liteErr("get order", err)
	}
	return &o, nil
}

func (s *SQLite) GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error) {
	if ref == "" {
		return nil, fmt.Errorf("get order by ref: %w", domain.ErrNotFound)
	}
	o, err := scanLiteOrder(s.db.QueryRowContext(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE payment_ref=?`, ref))
	if err != nil {
		return nil, liteErr("get order by ref", err)
	}
	return &o, nil
}

func (s *SQLite) ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pgOrderColumns+` FROM orders WHERE buyer_id=? ORDER BY order_number DESC`, buyerID)
	if err != nil {
		return nil, liteErr("list orders", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanLiteOrder(rows)
		if err != nil {
			return nil, liteErr("list orders", err)
		}
		out = append(out, o)
	}
	return out, liteErr("list orders", rows.Err())
}

func liteOrderState(ctx context.Context, tx *sql.Tx, number int64) (domain.OrderStatus, int64, int, error) {
	var (
		status        string
		productNumber int64
		bonus         int
	)
	err := tx.QueryRowContext(ctx,
		`SELECT status, product_number, bonus_units FROM orders WHERE order_number=?`, number).
		Scan(&status, &productNumber, &bonus)
	return domain.OrderStatus(status), productNumber, bonus, err
}

func (s *SQLite) SetOrderPayment(ctx context.Context, number int64, path, ref string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return liteErr("set payment: begin", err)
	}
	defer tx.Rollback()

	status, _, _, err := liteOrderState(ctx, tx, number)
	if err != nil {
		return liteErr("set payment", err)
	}
	if !domain.CanTransition(status, domain.StatusAwaitingPayment) {
		return fmt.Errorf("set payment %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET payment_path=?, payment_ref=?, status=?, payment_selected_at=? WHERE order_number=?`,
		path, ref, string(domain.StatusAwaitingPayment), time.Now().UnixNano(), number); err != nil {
		return liteErr("set payment", err)
	}
	return liteErr("set payment: commit", tx.Commit())
}

func (s *SQLite) MarkOrderPaid(ctx context.Context, number int64, method, promotion string) (*domain.PaidOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, liteErr("mark paid: begin", err)
	}
	defer tx.Rollback()

	status, productNumber, _, err := liteOrderState(ctx, tx, number)
	if err != nil {
		return nil, liteErr("mark paid", err)
	}
	if status == domain.StatusAbandoned {
		return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrOrderExpired)
	}
	if !domain.CanTransition(status, domain.StatusPaid) {
		return nil, fmt.Errorf("mark paid %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET quantity = quantity - 1 WHERE product_number=? AND quantity > 0`, productNumber)
	if err != nil {
		return nil, liteErr("mark paid: inventory", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, liteErr("mark paid: inventory", err)
	} else if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_number=?)`, productNumber).Scan(&exists); err != nil {
			return nil, liteErr("mark paid: inventory", err)
		}
		if !exists {
			return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("mark paid %d: %w", number, domain.ErrSoldOut)
	}

	bonus := 0
	if promotion != "" {
		res, err := tx.ExecContext(ctx, `
			UPDATE promotions SET sold = sold + 1, active = (sold + 1 < max_count)
			WHERE name=? AND active <> 0 AND sold < max_count
		`, promotion)
		if err != nil {
			return nil, liteErr("mark paid: promotion", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, liteErr("mark paid: promotion", err)
		} else if n == 1 {
			bonus = 1
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status=?, paidmethod=?, bonus_units=? WHERE order_number=?`,
		string(domain.StatusPaid), method, bonus, number); err != nil {
		return nil, liteErr("mark paid", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, liteErr("mark paid: commit", err)
	}

	o, err := s.GetOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	return &domain.PaidOutcome{Order: o, BonusGranted: bonus > 0}, nil
}

func (s *SQLite) FulfillOrder(ctx context.Context, number int64) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, liteErr("fulfill: begin", err)
	}
	defer tx.Rollback()

	status, productNumber, bonus, err := liteOrderState(ctx, tx, number)
	if err != nil {
		return nil, liteErr("fulfill", err)
	}
	if !domain.CanTransition(status, domain.StatusFulfilled) {
		return nil, fmt.Errorf("fulfill %d from %s: %w", number, status, domain.ErrInvalidTransition)
	}

	rows, err := tx.QueryContext(ctx, `
		UPDATE product_keys SET order_number=?, assigned_at=?
		WHERE id IN (
			SELECT id FROM product_keys
			WHERE product_number=? AND order_number IS NULL
			ORDER BY id LIMIT ?
		)
		RETURNING key_value
	`, number, time.Now().UnixNano(), productNumber, 1+bonus)
	if err != nil {
		return nil, liteErr("fulfill: claim keys", err)
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, liteErr("fulfill: claim keys", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, liteErr("fulfill: claim keys", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status=?, delivered_keys=? WHERE order_number=?`,
		string(domain.StatusFulfilled), joinKeys(keys), number); err != nil {
		return nil, liteErr("fulfill", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, liteErr("fulfill: commit", err)
	}
	return s.GetOrder(ctx, number)
}

func (s *SQLite) SetOrderComment(ctx context.Context, number int64, comment string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE orders SET comment=? WHERE order_number=?`, comment, number)
	return affected(fmt.Sprintf("set comment %d", number), res, err)
}

func (s *SQLite) DeleteOrder(ctx context.Context, number int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE order_number=?`, number)
	return affected(fmt.Sprintf("delete order %d", number), res, err)
}

func (s *SQLite) ExpireOrders(ctx context.Context, before time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE orders SET status=?
		WHERE status IN (?, ?) AND COALESCE(payment_selected_at, created_at) < ?
		RETURNING order_number
	`, string(domain.StatusAbandoned), string(domain.StatusCreated), string(domain.StatusAwaitingPayment), before.UnixNano())
	if err != nil {
		return nil, liteErr("expire orders", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, liteErr("expire orders", err)
		}
		ids = append(ids, id)
	}
	return ids, liteErr("expire orders", rows.Err())
}

func (s *SQLite) CreatePaymentMethod(ctx context.Context, name string, adminID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO payment_methods (name, admin_id) VALUES (?, ?)`, name, adminID)
	return liteErr("create payment method", err)
}

func scanLiteMethod(row scanner) (domain.PaymentMethod, error) {
	var (
		m         domain.PaymentMethod
		activated string
	)
	err := row.Scan(&m.Name, &m.AdminID, &m.Token, &m.Secret, &activated)
	m.Activated = activated == "YES"
	return m, err
}

func (s *SQLite) GetPaymentMethod(ctx context.Context, name string) (*domain.PaymentMethod, error) {
	m, err := scanLiteMethod(s.db.QueryRowContext(ctx,
		`SELECT name, admin_id, token, secret, activated FROM payment_methods WHERE name=?`, name))
	if err != nil {
		return nil, liteErr("get payment method", err)
	}
	return &m, nil
}

func (s *SQLite) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, admin_id, token, secret, activated FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, liteErr("list payment methods", err)
	}
	defer rows.Close()

	var out []domain.PaymentMethod
	for rows.Next() {
		m, err := scanLiteMethod(rows)
		if err != nil {
			return nil, liteErr("list payment methods", err)
		}
		out = append(out, m)
	}
	return out, liteErr("list payment methods", rows.Err())
}

func (s *SQLite) UpdatePaymentMethod(ctx context.Context, m domain.PaymentMethod) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payment_methods SET admin_id=?, token=?, secret=?, activated=? WHERE name=?`,
		m.AdminID, m.Token, m.Secret, activatedFlag(m.Activated), m.Name)
	return affected(fmt.Sprintf("update payment method %q", m.Name), res, err)
}

func (s *SQLite) DeletePaymentMethod(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE name=?`, name)
	return affected(fmt.Sprintf("delete payment method %q", name), res, err)
}

func (s *SQLite) UpsertPromotion(ctx context.Context, p domain.Promotion) error {
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO promotions (name, active, sold, max_count, started_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
		  active=excluded.active, sold=excluded.sold, max_count=excluded.max_count, started_at=excluded.started_at
	`, p.Name, p.Active, p.Sold, p.Max, p.StartedAt.UnixNano())
	return liteErr("upsert promotion", err)
}

func (s *SQLite) GetPromotion(ctx context.Context, name string) (*domain.Promotion, error) {
	var (
		p       domain.Promotion
		started int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, active, sold, max_count, started_at FROM promotions WHERE name=?`, name).
		Scan(&p.Name, &p.Active, &p.Sold, &p.Max, &started)
	if err != nil {
		return nil, liteErr("get promotion", err)
	}
	p.StartedAt = time.Unix(0, started).UTC()
	return &p, nil
}

func (s *SQLite) SetPromotionActive(ctx context.Context, name string, active bool) error {
	var (
		res sql.Result
		err error
	)
	if active {
		res, err = s.db.ExecContext(ctx, `UPDATE promotions SET active=1, started_at=? WHERE name=?`,
			time.Now().UnixNano(), name)
	} else {
		res, err = s.db.ExecContext(ctx, `UPDATE promotions SET active=0 WHERE name=?`, name)
	}
	return affected(fmt.Sprintf("set promotion %q", name), res, err)
}

var _ domain.Repository = (*SQLite)(nil)
