package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/inventario/backend/internal/application/catalog"
	identityapp "github.com/inventario/backend/internal/application/identity"
	partnerapp "github.com/inventario/backend/internal/application/partner"
	reportapp "github.com/inventario/backend/internal/application/report"
	tradeapp "github.com/inventario/backend/internal/application/trade"
	"github.com/inventario/backend/internal/infrastructure/auth"
	"github.com/inventario/backend/internal/infrastructure/config"
	"github.com/inventario/backend/internal/infrastructure/logger"
	"github.com/inventario/backend/internal/infrastructure/persistence"
	"github.com/inventario/backend/internal/interfaces/http/dto"
	"github.com/inventario/backend/internal/interfaces/http/handler"
	"github.com/inventario/backend/internal/interfaces/http/middleware"
	"github.com/inventario/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope mirrors dto.Response with the payload left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type testAPI struct {
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()

	database, err := persistence.Open(sqlite.Open(":memory:"), log, gormlogger.Silent, 0)
	require.NoError(t, err)
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate())

	db := database.DB
	productRepo := persistence.NewGormProductRepository(db)
	warehouseRepo := persistence.NewGormWarehouseRepository(db)
	supplierRepo := persistence.NewGormSupplierRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		RefreshSecret:          "handler-test-refresh-secret-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "handler-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(identityapp.NewAuthService(persistence.NewGormUserRepository(db), jwtService, blacklist, log)),
		Product:   handler.NewProductHandler(catalogapp.NewProductService(productRepo, warehouseRepo, supplierRepo, log)),
		Warehouse: handler.NewWarehouseHandler(partnerapp.NewWarehouseService(warehouseRepo)),
		Supplier:  handler.NewSupplierHandler(partnerapp.NewSupplierService(supplierRepo)),
		Order:     handler.NewOrderHandler(tradeapp.NewOrderService(persistence.NewGormOrderRepository(db), productRepo, log)),
		Sale:      handler.NewSaleHandler(tradeapp.NewSaleService(scope, saleRepo, productRepo, log)),
		Export:    handler.NewExportHandler(tradeapp.NewExportService(persistence.NewGormExportRepository(db), saleRepo)),
		Return:    handler.NewReturnHandler(tradeapp.NewReturnService(scope, persistence.NewGormReturnRepository(db), log)),
		Dashboard: handler.NewDashboardHandler(reportapp.NewDashboardService(persistence.NewGormDashboardRepository(db), log)),
		System:    handler.NewSystemHandler(database, "inventario-test"),
	}

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	router.RegisterAPI(router.NewRouter(engine), h, router.APIConfig{
		Authenticate: middleware.JWTAuthMiddleware(jwtService, blacklist, log),
	})

	return &testAPI{engine: engine}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// login registers a fresh user and keeps its access token for later calls
func (a *testAPI) login(t *testing.T) *identityapp.TokenResponse {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/register", gin.H{
		"username": "clerk",
		"email":    "clerk@example.com",
		"password": "s3cret-pass",
		"role":     "staff",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tokens := decode[identityapp.TokenResponse](t, env)
	a.token = tokens.AccessToken
	return &tokens
}
