package service

import (
	"context"
	"encoding/json"
	"path"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/auth"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/kahvecikaan/ecommerce-api/internal/mail"
	"github.com/kahvecikaan/ecommerce-api/internal/repository"
	"github.com/kahvecikaan/ecommerce-api/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	admin    = domain.Principal{UserID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	customer = domain.Principal{UserID: 2, Email: "user@example.com", Role: domain.RoleUser}
)

type fixture struct {
	db         *gorm.DB
	bus        *events.EventBus[any]
	cache      *memoryCache
	images     *storage.Local
	products   repository.ProductRepository
	categories repository.CategoryRepository
	orders     repository.OrderRepository
	users      repository.UserRepository

	productService  ProductService
	categoryService CategoryService
	orderService    OrderService
	userService     *userService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := hclog.NewNullLogger()
	dsn := filepath.Join(t.TempDir(), "service.db") + "?_foreign_keys=on"
	db, err := repository.Open(repository.DriverSQLite, dsn, logger)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() { _ = repository.Close(db) })

	images, err := storage.NewLocal(t.TempDir(), "http://localhost:9090", 1<<20)
	require.NoError(t, err)

	f := &fixture{
		db:         db,
		bus:        events.NewEventBus[any](),
		cache:      newMemoryCache(),
		images:     images,
		products:   repository.NewProductRepository(db),
		categories: repository.NewCategoryRepository(db),
		orders:     repository.NewOrderRepository(db),
		users:      repository.NewUserRepository(db),
	}
	tx := repository.NewTxManager(db)

	f.productService = NewProductService(f.products, f.categories, f.orders, tx, images, f.cache, f.bus, logger)
	f.categoryService = NewCategoryService(f.categories, f.products, tx, f.cache, logger)
	f.orderService = NewOrderService(f.orders, f.products, tx, f.bus, logger)
	f.userService = NewUserService(
		f.users,
		auth.NewPasswordHasherWithCost(bcrypt.MinCost),
		auth.NewJWTManager(auth.JWTConfig{SecretKey: "test", TokenDuration: time.Hour, Issuer: "test"}),
		time.Hour,
		DefaultVerificationTTL,
		f.bus,
		logger,
	).(*userService)

	// the principals used by the tests must exist for order foreign keys
	for _, p := range []domain.Principal{admin, customer} {
		u := &domain.User{ID: p.UserID, Name: p.Email, Email: p.Email, Password: "x", Role: p.Role, Enabled: true}
		require.NoError(t, db.Create(u).Error)
	}

	return f
}

func usedRequest(code, price string) domain.ProductRequest {
	p := decimal.RequireFromString(price)
	yes := true
	return domain.ProductRequest{
		Name:        "Product " + code,
		ProductCode: code,
		Type:        "USED",
		Price:       &p,
		Purchasable: &yes,
	}
}

func mustPage(t *testing.T, n, size int) domain.PageRequest {
	t.Helper()
	pr, err := domain.NewPageRequest(n, size)
	require.NoError(t, err)
	return pr
}

// memoryCache is a ProductCache that round-trips values through JSON like Redis does
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// recordingMailer keeps every message it is asked to send
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}
