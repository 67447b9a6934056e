package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	models "shop-backend/model"
)

const passwordSpecials = "@$!%*?&"

// checkPassword enforces at least 8 characters drawn from letters, digits
// and passwordSpecials, with one of each class present.
func checkPassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", models.ErrInvalidInput)
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return fmt.Errorf("%w: password contains an invalid character", models.ErrInvalidInput)
		}
	}
	if !lower || !upper || !digit || !special {
		return fmt.Errorf("%w: password needs a lowercase letter, an uppercase letter, a digit and one of %s",
			models.ErrInvalidInput, passwordSpecials)
	}
	return nil
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (UserDTO, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return UserDTO{}, err
	}
	if err := checkPassword(req.Password); err != nil {
		return UserDTO{}, err
	}
	if req.Password != req.ConfirmPassword {
		return UserDTO{}, fmt.Errorf("%w: passwords do not match", models.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return UserDTO{}, err
	}
	s.log.Info().Str("user_id", u.ID).Msg("user signed up")
	return UserDTO{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := validateStruct(req); err != nil {
		return LoginResult{}, err
	}
	if len(s.tokenSecret) == 0 {
		return LoginResult{}, errors.New("login: token secret not configured")
	}
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, models.ErrNotFound) {
		return LoginResult{}, fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}
	if err != nil {
		return LoginResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid credentials", models.ErrUnauthorized)
	}

	now := time.Now()
	exp := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info().Str("user_id", u.ID).Msg("user logged in")
	return LoginResult{Token: signed, ExpiresAt: exp}, nil
}

// VerifyToken checks signature and expiry and returns the user id the token
// was issued to.
func (s *Service) VerifyToken(ctx context.Context, token string) (string, error) {
	if len(s.tokenSecret) == 0 {
		return "", errors.New("verify token: token secret not configured")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.tokenSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", models.ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	if err := checkCustomerID(id); err != nil {
		return models.Customer{}, err
	}
	return s.store.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, req CustomerRequest) (models.Customer, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return models.Customer{}, err
	}
	c := req.toCustomer()
	c.ID = uuid.NewString()
	c, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return models.Customer{}, err
	}
	s.log.Info().Str("customer_id", c.ID).Msg("customer created")
	return c, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (models.Customer, error) {
	if err := checkCustomerID(id); err != nil {
		return models.Customer{}, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return models.Customer{}, err
	}
	c := req.toCustomer()
	c.ID = id
	c, err := s.store.UpdateCustomer(ctx, c)
	if err != nil {
		return models.Customer{}, err
	}
	s.log.Info().Str("customer_id", c.ID).Msg("customer updated")
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := checkCustomerID(id); err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

// checkCustomerID rejects ids that could never have been issued.
func checkCustomerID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: customer %s", models.ErrNotFound, id)
	}
	return nil
}

func (r CustomerRequest) toCustomer() models.Customer {
	return models.Customer{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Address:   r.Address,
		Phone:     r.Phone,
		State:     r.State,
		Country:   r.Country,
		ZipCode:   r.ZipCode,
	}
}
