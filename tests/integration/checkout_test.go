//go:build integration

package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	catalogapp "github.com/drobe/backend/internal/application/catalog"
	tradeapp "github.com/drobe/backend/internal/application/trade"
	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/cache"
	"github.com/drobe/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type shop struct {
	products  *persistence.GormProductRepository
	discounts *persistence.GormDiscountRepository
	orders    *persistence.GormOrderRepository
	carts     *tradeapp.CartService
	checkout  *tradeapp.CheckoutService
	clock     shared.FixedClock
}

func newShop(t *testing.T, db *gorm.DB) *shop {
	t.Helper()
	log := zaptest.NewLogger(t)
	clock := shared.FixedClock{At: time.Date(2025, 11, 28, 9, 0, 0, 0, time.UTC)}

	products := persistence.NewGormProductRepository(db)
	discounts := persistence.NewGormDiscountRepository(db)
	scope := persistence.NewGormTransactionScope(db)
	source := catalogapp.NewRepositoryDiscountSource(discounts)

	idempotency := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = idempotency.Close() })

	return &shop{
		products:  products,
		discounts: discounts,
		orders:    persistence.NewGormOrderRepository(db),
		carts:     tradeapp.NewCartService(scope, persistence.NewGormCartRepository(db), products, source, clock, log),
		checkout:  tradeapp.NewCheckoutService(scope, idempotency, time.Hour, clock, log),
		clock:     clock,
	}
}

func (s *shop) seedProduct(t *testing.T, db *gorm.DB, name, price string) *catalog.Product {
	t.Helper()
	ctx := context.Background()

	brand, err := catalog.NewBrand("Brand " + uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormBrandRepository(db).Save(ctx, brand))

	product, err := catalog.NewProduct(name, catalog.CategoryWomens, brand.ID, decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, s.products.Save(ctx, product))
	return product
}

func (s *shop) addToCart(t *testing.T, id trade.Identity, productID uuid.UUID, qty int) {
	t.Helper()
	_, err := s.carts.AddItem(context.Background(), id, tradeapp.AddCartItemRequest{ProductID: &productID, Quantity: &qty})
	require.NoError(t, err)
}

func TestCheckout_FreezesPricesAndEmptiesCart(t *testing.T) {
	tdb := NewSharedTestDB(t)
	t.Cleanup(tdb.CleanTables)
	s := newShop(t, tdb.DB)
	ctx := context.Background()

	dress := s.seedProduct(t, tdb.DB, "Silk Dress", "120.00")

	sale, err := catalog.NewDiscount("Black Friday", catalog.DiscountTypePercentage,
		decimal.RequireFromString("25"), s.clock.At.Add(-24*time.Hour), nil)
	require.NoError(t, err)
	require.NoError(t, sale.SetTargets(catalog.DiscountTargets{ProductIDs: []uuid.UUID{dress.ID}}))
	require.NoError(t, s.discounts.Save(ctx, sale))

	customer := trade.Identity{CustomerID: uuid.New()}
	s.addToCart(t, customer, dress.ID, 2)

	order, err := s.checkout.Checkout(ctx, customer, tradeapp.CheckoutRequest{
		Telephone:   "+44 20 7946 0000",
		Destination: "221B Baker Street, London",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("180.00")), order.Total.String())

	cart, err := s.carts.Get(ctx, customer)
	require.NoError(t, err)
	assert.Zero(t, cart.Count)

	// Later price changes never reach a placed order
	dress.Price = decimal.RequireFromString("999.00")
	require.NoError(t, s.products.Save(ctx, dress))
	require.NoError(t, s.discounts.Delete(ctx, sale.ID))

	stored, err := s.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("120.00")))
	assert.True(t, stored.Total().Equal(decimal.RequireFromString("180.00")))
}

func TestCheckout_ConcurrentAttemptsPlaceOneOrder(t *testing.T) {
	tdb := NewTestDB(t)
	s := newShop(t, tdb.DB)
	ctx := context.Background()

	coat := s.seedProduct(t, tdb.DB, "Wool Coat", "199.00")
	customer := trade.Identity{CustomerID: uuid.New()}
	s.addToCart(t, customer, coat.ID, 1)

	const attempts = 5
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected []error
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.checkout.Checkout(ctx, customer, tradeapp.CheckoutRequest{}, "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				placed++
				return
			}
			rejected = append(rejected, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, placed)
	for _, err := range rejected {
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	}

	count, err := s.orders.CountByCustomer(ctx, customer.CustomerID, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCheckout_MergesSessionCartOnLogin(t *testing.T) {
	tdb := NewSharedTestDB(t)
	t.Cleanup(tdb.CleanTables)
	s := newShop(t, tdb.DB)
	ctx := context.Background()

	scarf := s.seedProduct(t, tdb.DB, "Cashmere Scarf", "45.00")
	anonymous := trade.Identity{SessionKey: "sess-" + uuid.NewString()}
	s.addToCart(t, anonymous, scarf.ID, 1)

	customerID := uuid.New()
	s.addToCart(t, trade.Identity{CustomerID: customerID}, scarf.ID, 2)

	loggedIn := trade.Identity{CustomerID: customerID, SessionKey: anonymous.SessionKey}
	cart, err := s.carts.Get(ctx, loggedIn)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Count)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("135.00")))

	sessionCart, err := s.carts.Get(ctx, anonymous)
	require.NoError(t, err)
	assert.Zero(t, sessionCart.Count)
}
