//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/bookhaven/bookstore-api/test/pact"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	orderscatalog "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/catalog"
	ordersmemory "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersdomain "github.com/bookhaven/bookstore-api/internal/domains/orders/domain"
	usermemory "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/memory"
	userapp "github.com/bookhaven/bookstore-api/internal/domains/users/application"
	usersdomain "github.com/bookhaven/bookstore-api/internal/domains/users/domain"
	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
	"github.com/bookhaven/bookstore-api/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestBookstoreProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedAdminSession(t)
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedAdminSession(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	orderRepo *ordersmemory.Repository
	userRepo  *usermemory.Repository
	sessions  *usermemory.SessionStore
	server    *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	userRepo := usermemory.NewRepository()
	sessions := usermemory.NewSessionStore()
	userService := userapp.NewService(userRepo, sessions)

	catalogService := catalogapp.NewService(catalogmemory.NewRepository())
	orderRepo := ordersmemory.NewRepository()
	orderService := ordersobs.New(ordersapp.NewService(orderRepo, orderscatalog.NewAdapter(catalogService)))

	router := server.NewRouter(server.Deps{
		Users:   userService,
		Catalog: catalogService,
		Orders:  orderService,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &contractProviderApp{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		sessions:  sessions,
		server:    srv,
	}
}

// seedAdminSession materializes the fixed admin token the consumer contract
// sends. Seeding is idempotent so interactions can share state.
func (a *contractProviderApp) seedAdminSession(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	if _, err := a.userRepo.GetByUsername(ctx, pacttest.AdminUsername); errors.Is(err, userports.ErrNotFound) {
		admin, err := usersdomain.NewUser("pact-admin-id", pacttest.AdminUsername, "pact-admin@example.com", pacttest.AdminPassword, usersdomain.RoleAdmin)
		require.NoError(t, err)
		_, err = a.userRepo.Save(ctx, admin)
		require.NoError(t, err)
	}
	require.NoError(t, a.sessions.Save(ctx, userports.Session{
		Token:     pacttest.AdminToken,
		Username:  pacttest.AdminUsername,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

func (a *contractProviderApp) seedOrder(t testing.TB, orderID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := a.orderRepo.GetByID(ctx, orderID); err == nil {
		return
	}
	order, err := ordersdomain.NewOrder(orderID, pacttest.CustomerID, []ordersdomain.OrderItem{
		{BookID: pacttest.BookID, Title: pacttest.BookTitle, Quantity: 1, UnitPriceCents: 3499},
	})
	require.NoError(t, err)
	_, err = a.orderRepo.Save(ctx, order)
	require.NoError(t, err)
}
