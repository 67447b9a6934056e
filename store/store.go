package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/lib/pq"

	models "shop-backend/model"
)

// PostgresStore is a Store backed by Postgres. Every conditional write is a
// single statement or a version-checked UPDATE, so no process-local locking
// is needed and several instances may share one database.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return &PostgresStore{DB: db}, nil
}

// Migrate applies the schema. The statements are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context, schema string) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return classify(err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return classify(s.DB.PingContext(ctx)) }

func (s *PostgresStore) Close() error { return s.DB.Close() }

const productColumns = `id, name, description, category, price, stock, rating_total, rating_count, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (models.Product, error) {
	var p models.Product
	var desc sql.NullString
	err := r.Scan(&p.ID, &p.Name, &desc, &p.Category, &p.Price, &p.Stock,
		&p.RatingTotal, &p.RatingCount, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if desc.Valid {
		p.Description = desc.String
	}
	return p, nil
}

// CreateProduct inserts a product and returns it with its id and timestamps.
func (s *PostgresStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO products (name, description, category, price, stock) VALUES ($1, $2, $3, $4, $5) RETURNING id, version, created_at, updated_at`,
		p.Name, p.Description, p.Category, p.Price, p.Stock,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(s.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, fmt.Errorf("%w: product %d", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Product{}, classify(err)
	}
	return p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("%w: product %d", models.ErrNotFound, id)
	}
	return nil
}

// FindProducts translates q into a single SELECT. Results are in insertion
// order unless q.ByRating is set.
func (s *PostgresStore) FindProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	var (
		conds []string
		args  []any
	)
	if q.NameContains != "" {
		args = append(args, "%"+escapeLike(q.NameContains)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.RatedOnly {
		conds = append(conds, "rating_count > 0")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if q.ByRating {
		b.WriteString(" ORDER BY rating_total::float8 / NULLIF(rating_count, 0) DESC NULLS LAST, id")
	} else {
		b.WriteString(" ORDER BY id")
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := s.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, p)
	}
	return out, classify(rows.Err())
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func wrapKind(kind, err error) error {
	return fmt.Errorf("%w: %v", kind, err)
}

// classify maps driver errors onto the models error kinds. Unknown errors are
// returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return wrapKind(models.ErrAlreadyExists, err)
		case "23503":
			return wrapKind(models.ErrNotFound, err)
		case "23502", "23514", "22P02", "22003":
			return wrapKind(models.ErrInvalidInput, err)
		case "40001", "40P01", "55P03":
			return wrapKind(models.ErrConflict, err)
		}
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return wrapKind(models.ErrStorageUnavailable, err)
		}
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return wrapKind(models.ErrStorageUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrapKind(models.ErrStorageUnavailable, err)
	}
	return err
}
