package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	models "shop-backend/model"
	"shop-backend/store"
)

// TopRatedCache holds recent top-rated listings. Implementations must be safe
// for concurrent use; a miss is (nil, false, nil).
type TopRatedCache interface {
	Get(ctx context.Context, limit int) ([]models.Product, bool, error)
	Set(ctx context.Context, limit int, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// EventPublisher delivers stock events after a purchase commits.
type EventPublisher interface {
	PublishStockEvent(ctx context.Context, ev models.StockEvent) error
}

// RetryConfig bounds how often a conflicting product mutation is retried.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     5,
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
	}
}

type Service struct {
	store  store.Store
	cache  TopRatedCache
	events EventPublisher
	log    zerolog.Logger
	retry  RetryConfig

	tokenSecret []byte
	tokenTTL    time.Duration
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

func WithTopRatedCache(c TopRatedCache) Option { return func(s *Service) { s.cache = c } }

func WithEventPublisher(p EventPublisher) Option { return func(s *Service) { s.events = p } }

func WithRetry(cfg RetryConfig) Option { return func(s *Service) { s.retry = cfg } }

// WithTokens sets the HMAC secret and lifetime of issued access tokens.
func WithTokens(secret string, ttl time.Duration) Option {
	return func(s *Service) {
		s.tokenSecret = []byte(secret)
		s.tokenTTL = ttl
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		log:      zerolog.Nop(),
		retry:    DefaultRetryConfig(),
		tokenTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retry.MaxAttempts < 1 {
		s.retry.MaxAttempts = 1
	}
	return s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of req and reports failures as
// models.ErrInvalidInput.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
