package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	models "shop-backend/model"
)

// MemoryStore is an in-process Store. Products use the same optimistic
// versioning as PostgresStore: MutateProduct reads under the read lock, runs
// the caller's function unlocked, then commits only if the version is
// unchanged. Carts and wishlists are updated entirely under the write lock.
type MemoryStore struct {
	mu sync.RWMutex

	products      map[int64]models.Product
	nextProductID int64

	carts      map[int64]*memCart
	cartByUser map[string]int64
	nextCartID int64

	wishlists map[string][]int64

	users        map[string]models.User
	userByEmail  map[string]string
	customers    map[string]models.Customer
	customerSeqs []string
}

type memCart struct {
	id        int64
	userID    string
	items     map[int64]int
	createdAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:      make(map[int64]models.Product),
		nextProductID: 1,
		carts:         make(map[int64]*memCart),
		cartByUser:    make(map[string]int64),
		nextCartID:    1,
		wishlists:     make(map[string][]int64),
		users:         make(map[string]models.User),
		userByEmail:   make(map[string]string),
		customers:     make(map[string]models.Customer),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

func now() time.Time { return time.Now().UTC() }

func (s *MemoryStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProductID
	s.nextProductID++
	p.Version = 1
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = p
	return p, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("%w: product %d", models.ErrNotFound, id)
	}
	return p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%w: product %d", models.ErrNotFound, id)
	}
	delete(s.products, id)
	// mirror ON DELETE CASCADE
	for _, c := range s.carts {
		delete(c.items, id)
	}
	for user, ids := range s.wishlists {
		s.wishlists[user] = removeID(ids, id)
	}
	return nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *MemoryStore) FindProducts(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]models.Product, 0, len(s.products))
	needle := strings.ToLower(q.NameContains)
	for _, p := range s.products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.RatedOnly && p.RatingCount == 0 {
			continue
		}
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if q.ByRating {
		sort.SliceStable(out, func(i, j int) bool {
			ai, oki := out[i].AverageRating()
			aj, okj := out[j].AverageRating()
			if oki != okj {
				return oki
			}
			return ai > aj
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) MutateProduct(ctx context.Context, id int64, fn func(*models.Product) error) (models.Product, error) {
	cur, err := s.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	next := cur
	if err := fn(&next); err != nil {
		return models.Product{}, err
	}
	if next.Stock < 0 {
		return models.Product{}, fmt.Errorf("%w: product %d", models.ErrInsufficientStock, id)
	}
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.products[id]
	if !ok || stored.Version != cur.Version {
		return models.Product{}, fmt.Errorf("%w: product %d changed since version %d", models.ErrConflict, id, cur.Version)
	}
	next.ID = id
	next.Version = cur.Version + 1
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = now()
	s.products[id] = next
	return next, nil
}

func (s *MemoryStore) UpsertCart(ctx context.Context, userID string) (models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return models.Cart{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return models.Cart{}, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	if id, ok := s.cartByUser[userID]; ok {
		return s.carts[id].snapshot(), nil
	}
	c := &memCart{id: s.nextCartID, userID: userID, items: make(map[int64]int), createdAt: now()}
	s.nextCartID++
	s.carts[c.id] = c
	s.cartByUser[userID] = c.id
	return c.snapshot(), nil
}

func (c *memCart) snapshot() models.Cart {
	out := models.Cart{ID: c.id, UserID: c.userID, CreatedAt: c.createdAt, Items: make([]models.CartLineItem, 0, len(c.items))}
	for pid, qty := range c.items {
		out.Items = append(out.Items, models.CartLineItem{ProductID: pid, Quantity: qty})
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ProductID < out.Items[j].ProductID })
	return out
}

func (s *MemoryStore) GetCart(ctx context.Context, cartID int64) (models.Cart, error) {
	if err := ctx.Err(); err != nil {
		return models.Cart{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	return c.snapshot(), nil
}

func (s *MemoryStore) MergeCartItem(ctx context.Context, cartID, productID int64, qty int) (models.Cart, error) {
	if qty <= 0 {
		return models.Cart{}, fmt.Errorf("%w: quantity must be > 0", models.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return models.Cart{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return models.Cart{}, fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	if _, ok := s.products[productID]; !ok {
		return models.Cart{}, fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
	}
	c.items[productID] += qty
	return c.snapshot(), nil
}

func (s *MemoryStore) RemoveCartItem(ctx context.Context, cartID, productID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	if _, ok := c.items[productID]; !ok {
		return fmt.Errorf("%w: product %d not in cart %d", models.ErrNotFound, productID, cartID)
	}
	delete(c.items, productID)
	return nil
}

func (s *MemoryStore) AddWishlistItem(ctx context.Context, userID string, productID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
	}
	if (models.Wishlist{UserID: userID, ProductIDs: s.wishlists[userID]}).Contains(productID) {
		return fmt.Errorf("%w: product %d already in wishlist", models.ErrAlreadyExists, productID)
	}
	s.wishlists[userID] = append(s.wishlists[userID], productID)
	return nil
}

func (s *MemoryStore) GetWishlist(ctx context.Context, userID string) (models.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return models.Wishlist{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := append([]int64{}, s.wishlists[userID]...)
	return models.Wishlist{UserID: userID, ProductIDs: ids}, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userByEmail[u.Email]; ok {
		return models.User{}, fmt.Errorf("%w: email %s", models.ErrAlreadyExists, u.Email)
	}
	u.CreatedAt = now()
	s.users[u.ID] = u
	s.userByEmail[u.Email] = u.ID
	return u, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userByEmail[email]
	if !ok {
		return models.User{}, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return models.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[c.ID]; ok {
		return models.Customer{}, fmt.Errorf("%w: customer %s", models.ErrAlreadyExists, c.ID)
	}
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	s.customers[c.ID] = c
	s.customerSeqs = append(s.customerSeqs, c.ID)
	return c, nil
}

func (s *MemoryStore) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return models.Customer{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return models.Customer{}, fmt.Errorf("%w: customer %s", models.ErrNotFound, id)
	}
	return c, nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, 0, len(s.customerSeqs))
	for _, id := range s.customerSeqs {
		out = append(out, s.customers[id])
	}
	return out, nil
}

func (s *MemoryStore) UpdateCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return models.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.customers[c.ID]
	if !ok {
		return models.Customer{}, fmt.Errorf("%w: customer %s", models.ErrNotFound, c.ID)
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = now()
	s.customers[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return fmt.Errorf("%w: customer %s", models.ErrNotFound, id)
	}
	delete(s.customers, id)
	for i, v := range s.customerSeqs {
		if v == id {
			s.customerSeqs = append(s.customerSeqs[:i], s.customerSeqs[i+1:]...)
			break
		}
	}
	return nil
}
