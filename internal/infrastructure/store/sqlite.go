package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shophub/backend/internal/domain"
)

// SQLiteStore implements domain.ProductStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %s: %w", pragma, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL,
	price          REAL NOT NULL,
	image_url      TEXT,
	stock          INTEGER NOT NULL DEFAULT 0,
	category       TEXT,
	affiliate_url  TEXT,
	merchant       TEXT,
	rating         REAL,
	review_count   INTEGER,
	is_deal        INTEGER NOT NULL DEFAULT 0,
	deal_price     REAL,
	original_price REAL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_affiliate_url
	ON products(affiliate_url) WHERE affiliate_url IS NOT NULL AND affiliate_url != '';
`

// Migrate creates the products table and its indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const productColumns = `id, name, description, price, image_url, stock, category,
	affiliate_url, merchant, rating, review_count, is_deal, deal_price,
	original_price, created_at, updated_at`

// FindBySourceURL returns the product with an exact affiliate URL match, or
// (nil, nil) when none exists.
func (s *SQLiteStore) FindBySourceURL(ctx context.Context, url string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE affiliate_url = ? LIMIT 1`, url)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find by source url: %w", err)
	}
	return p, nil
}

// Create inserts a product and returns the stored row.
func (s *SQLiteStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, image_url, stock, category,
			affiliate_url, merchant, rating, review_count, is_deal, deal_price,
			original_price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.Category,
		p.AffiliateURL, p.Merchant, nullFloat(p.Rating), nullInt(p.ReviewCount),
		p.IsDeal, nullFloat(p.DealPrice), nullFloat(p.OriginalPrice), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update overwrites an existing product row.
func (s *SQLiteStore) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, image_url = ?,
			stock = ?, category = ?, affiliate_url = ?, merchant = ?, rating = ?,
			review_count = ?, is_deal = ?, deal_price = ?, original_price = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.Category,
		p.AffiliateURL, p.Merchant, nullFloat(p.Rating), nullInt(p.ReviewCount),
		p.IsDeal, nullFloat(p.DealPrice), nullFloat(p.OriginalPrice),
		time.Now().UTC(), p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrProductNotFound
	}
	return s.GetByID(ctx, p.ID)
}

// GetByID returns a single product or ErrProductNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %d: %w", id, err)
	}
	return p, nil
}

// GetByIDs returns the products for the given ids, preserving input order.
func (s *SQLiteStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get products by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate products: %w", err)
	}

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// List returns products matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter domain.SearchFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Merchant != "" {
		query += ` AND merchant = ?`
		args = append(args, filter.Merchant)
	}
	if filter.DealsOnly {
		query += ` AND is_deal = 1`
	}
	if filter.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query += ` AND rating IS NOT NULL AND rating >= ?`
		args = append(args, *filter.MinRating)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query += ` AND (lower(name) LIKE ? OR lower(description) LIKE ? OR lower(category) LIKE ?)`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, fmtErr(rows.Err(), "sqlite: list products iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable) (*domain.Product, error) {
	var p domain.Product
	var imageURL, category, affiliateURL, merchant sql.NullString
	var rating, dealPrice, originalPrice sql.NullFloat64
	var reviewCount sql.NullInt64

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &imageURL, &p.Stock,
		&category, &affiliateURL, &merchant, &rating, &reviewCount, &p.IsDeal,
		&dealPrice, &originalPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.ImageURL = imageURL.String
	p.Category = category.String
	p.AffiliateURL = affiliateURL.String
	p.Merchant = merchant.String
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	if reviewCount.Valid {
		count := int(reviewCount.Int64)
		p.ReviewCount = &count
	}
	if dealPrice.Valid {
		p.DealPrice = &dealPrice.Float64
	}
	if originalPrice.Valid {
		p.OriginalPrice = &originalPrice.Float64
	}
	return &p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fmtErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
