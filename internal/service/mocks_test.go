package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flicky/storefront-api/internal/model"
	"github.com/flicky/storefront-api/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicateKey
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[email], nil
}

type mockCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			return repository.ErrDuplicateKey
		}
	}
	c.ID = uuid.New()
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var all []model.Category
	for _, c := range m.categories {
		all = append(all, *c)
	}
	return all, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	reads    int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) add(p model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Title)
	}
	m.products[p.ID] = &p
	return &p
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Slug == p.Slug {
			return repository.ErrDuplicateKey
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetBySlug(_ context.Context, slug string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]*model.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *mockProductRepo) List(_ context.Context, f repository.ProductFilter) ([]model.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Product
	for _, p := range m.products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	total := len(all)
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product, setInventory bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if !setInventory {
		p.Inventory = stored.Inventory
	}
	for id, existing := range m.products {
		if id != p.ID && existing.Slug == p.Slug {
			return repository.ErrDuplicateKey
		}
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

type mockCartRepo struct {
	carts map[uuid.UUID]*model.Cart
	items map[uuid.UUID]*model.CartItem
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*model.Cart), items: make(map[uuid.UUID]*model.CartItem)}
}

func (m *mockCartRepo) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	for _, c := range m.carts {
		if c.UserID == userID {
			return &model.Cart{ID: c.ID, UserID: c.UserID}, nil
		}
	}
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	m.carts[cart.ID] = cart
	return &model.Cart{ID: cart.ID, UserID: userID}, nil
}

func (m *mockCartRepo) GetCartWithItems(_ context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	out := &model.Cart{ID: cart.ID, UserID: cart.UserID}
	for _, item := range m.items {
		if item.CartID == cartID {
			out.Items = append(out.Items, *item)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ProductID.String() < out.Items[j].ProductID.String() })
	return out, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			*item = *existing
			return nil
		}
	}
	item.ID = uuid.New()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockCartRepo) UpdateItem(_ context.Context, item *model.CartItem) error {
	existing, ok := m.items[item.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Quantity = item.Quantity
	return nil
}

func (m *mockCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := m.items[itemID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) ClearCart(_ context.Context, cartID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockCartRepo) RemoveProducts(_ context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	for id, item := range m.items {
		cart := m.carts[item.CartID]
		if cart == nil || cart.UserID != userID {
			continue
		}
		for _, pid := range productIDs {
			if item.ProductID == pid {
				delete(m.items, id)
			}
		}
	}
	return nil
}

type mockAddressRepo struct {
	addresses  map[uuid.UUID]*model.Address
	referenced map[uuid.UUID]bool
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{addresses: make(map[uuid.UUID]*model.Address), referenced: make(map[uuid.UUID]bool)}
}

func (m *mockAddressRepo) add(a model.Address) *model.Address {
	a.ID = uuid.New()
	m.addresses[a.ID] = &a
	return &a
}

func (m *mockAddressRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Address, error) {
	var out []model.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAddressRepo) Create(_ context.Context, a *model.Address) error {
	hasAny := false
	for _, existing := range m.addresses {
		if existing.UserID == a.UserID {
			hasAny = true
		}
	}
	if !hasAny {
		a.IsDefault = true
	}
	if a.IsDefault {
		m.clearDefault(a.UserID)
	}
	a.ID = uuid.New()
	cp := *a
	m.addresses[a.ID] = &cp
	return nil
}

func (m *mockAddressRepo) Update(_ context.Context, a *model.Address) error {
	existing, ok := m.addresses[a.ID]
	if !ok || existing.UserID != a.UserID {
		return repository.ErrNotFound
	}
	if a.IsDefault {
		m.clearDefault(a.UserID)
	}
	cp := *a
	m.addresses[a.ID] = &cp
	return nil
}

func (m *mockAddressRepo) SetDefault(_ context.Context, userID, id uuid.UUID) error {
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	m.clearDefault(userID)
	a.IsDefault = true
	return nil
}

func (m *mockAddressRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	if m.referenced[id] {
		return repository.ErrReferenced
	}
	delete(m.addresses, id)
	return nil
}

func (m *mockAddressRepo) clearDefault(userID uuid.UUID) {
	for _, a := range m.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
}

// mockOrderRepo places orders against a mockProductRepo, applying the same
// conditional decrement the database does.
type mockOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	products *mockProductRepo
	placeErr error
}

func newMockOrderRepo(products *mockProductRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order), products: products}
}

func (m *mockOrderRepo) PlaceOrder(_ context.Context, order *model.Order) error {
	if m.placeErr != nil {
		return m.placeErr
	}
	m.products.mu.Lock()
	defer m.products.mu.Unlock()
	for _, line := range order.Items {
		p, ok := m.products.products[line.ProductID]
		switch {
		case !ok:
			return &repository.LineError{ProductID: line.ProductID, Err: repository.ErrNotFound}
		case p.PriceCents != line.UnitPriceCents:
			return &repository.LineError{ProductID: p.ID, Title: p.Title, Err: repository.ErrPriceChanged}
		case p.Inventory < line.Quantity:
			return &repository.LineError{ProductID: p.ID, Title: p.Title, Err: repository.ErrInsufficientStock}
		}
	}
	for _, line := range order.Items {
		m.products.products[line.ProductID].Inventory -= line.Quantity
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range m.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *mockOrderRepo) UpdatePayment(_ context.Context, id uuid.UUID, u repository.PaymentUpdate) error {
	o, ok := m.orders[id]
	if !ok || o.PaymentStatus != model.PaymentStatusPending || o.Status != u.From {
		return repository.ErrStaleState
	}
	o.PaymentStatus = u.PaymentStatus
	o.Status = u.Status
	o.PaymentOrderID = u.PaymentOrderID
	o.PaymentID = u.PaymentID
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, u repository.StatusUpdate) error {
	o, ok := m.orders[id]
	if !ok || o.Status != u.From {
		return repository.ErrStaleState
	}
	o.Status = u.To
	if u.TrackingNumber != "" {
		o.TrackingNumber = u.TrackingNumber
	}
	if u.PaymentStatus != "" {
		o.PaymentStatus = u.PaymentStatus
	}
	now := time.Now()
	switch u.To {
	case model.OrderStatusShipped:
		o.ShippedAt = &now
	case model.OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	return nil
}

type mockReviewRepo struct {
	reviews  map[uuid.UUID]*model.Review
	products *mockProductRepo
}

func newMockReviewRepo(products *mockProductRepo) *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[uuid.UUID]*model.Review), products: products}
}

func (m *mockReviewRepo) Create(_ context.Context, rv *model.Review) error {
	if _, ok := m.products.products[rv.ProductID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range m.reviews {
		if existing.UserID == rv.UserID && existing.ProductID == rv.ProductID {
			return repository.ErrDuplicateKey
		}
	}
	rv.ID = uuid.New()
	cp := *rv
	m.reviews[rv.ID] = &cp
	m.recompute(rv.ProductID)
	return nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (m *mockReviewRepo) ListByProductID(_ context.Context, productID uuid.UUID, _, _ int) ([]model.Review, int, error) {
	var out []model.Review
	for _, rv := range m.reviews {
		if rv.ProductID == productID {
			out = append(out, *rv)
		}
	}
	return out, len(out), nil
}

func (m *mockReviewRepo) Delete(_ context.Context, rv *model.Review) error {
	if _, ok := m.reviews[rv.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reviews, rv.ID)
	m.recompute(rv.ProductID)
	return nil
}

func (m *mockReviewRepo) recompute(productID uuid.UUID) {
	var sum, n int
	for _, rv := range m.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	p := m.products.products[productID]
	p.ReviewCount = n
	p.Rating = 0
	if n > 0 {
		p.Rating = float64(sum) / float64(n)
	}
}

type mockWishlistRepo struct {
	items    map[uuid.UUID]map[uuid.UUID]time.Time
	products *mockProductRepo
}

func newMockWishlistRepo(products *mockProductRepo) *mockWishlistRepo {
	return &mockWishlistRepo{items: make(map[uuid.UUID]map[uuid.UUID]time.Time), products: products}
}

func (m *mockWishlistRepo) List(_ context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	for pid, added := range m.items[userID] {
		p := *m.products.products[pid]
		out = append(out, model.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: pid, Product: &p, CreatedAt: added})
	}
	return out, nil
}

func (m *mockWishlistRepo) Add(_ context.Context, userID, productID uuid.UUID) error {
	if _, ok := m.products.products[productID]; !ok {
		return repository.ErrNotFound
	}
	if m.items[userID] == nil {
		m.items[userID] = make(map[uuid.UUID]time.Time)
	}
	if _, ok := m.items[userID][productID]; !ok {
		m.items[userID][productID] = time.Now()
	}
	return nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	if _, ok := m.items[userID][productID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items[userID], productID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...uuid.UUID) {
	r.ids = append(r.ids, ids...)
}
