package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	models "shop-backend/model"
)

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		return models.User{}, classify(err)
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) getUser(ctx context.Context, query, arg string) (models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, classify(err)
	}
	return u, nil
}

const customerColumns = `id, first_name, last_name, email, address, phone, state, country, zip_code, created_at, updated_at`

func scanCustomer(r rowScanner) (models.Customer, error) {
	var c models.Customer
	err := r.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Address, &c.Phone,
		&c.State, &c.Country, &c.ZipCode, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *PostgresStore) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, address, phone, state, country, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Address, c.Phone, c.State, c.Country, c.ZipCode,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Customer{}, classify(err)
	}
	return c, nil
}

func (s *PostgresStore) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	c, err := scanCustomer(s.DB.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, fmt.Errorf("%w: customer %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Customer{}, classify(err)
	}
	return c, nil
}

func (s *PostgresStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, c)
	}
	return out, classify(rows.Err())
}

func (s *PostgresStore) UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	err := s.DB.QueryRowContext(ctx, `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, address = $4, phone = $5,
		    state = $6, country = $7, zip_code = $8, updated_at = now()
		WHERE id = $9
		RETURNING created_at, updated_at`,
		c.FirstName, c.LastName, c.Email, c.Address, c.Phone, c.State, c.Country, c.ZipCode, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, fmt.Errorf("%w: customer %s", models.ErrNotFound, c.ID)
	}
	if err != nil {
		return models.Customer{}, classify(err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return fmt.Errorf("%w: customer %s", models.ErrNotFound, id)
	}
	return nil
}
