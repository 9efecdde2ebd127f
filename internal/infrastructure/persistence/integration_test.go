//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	apptrade "github.com/inventario/backend/internal/application/trade"
	"github.com/inventario/backend/internal/domain/shared"
	"github.com/inventario/backend/internal/domain/trade"
	"github.com/inventario/backend/internal/infrastructure/config"
	"github.com/inventario/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func migrationsDir(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// startPostgres runs a disposable PostgreSQL with the SQL migrations applied
func startPostgres(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("inventario"),
		postgres.WithUsername("inventario"),
		postgres.WithPassword("inventario"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Host:         host,
		Port:         port.Int(),
		User:         "inventario",
		Password:     "inventario",
		DBName:       "inventario",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	migrator, err := migration.New(cfg.DSN(), migrationsDir(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	db, err := NewDatabase(cfg, zap.NewNop(), gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgres_SaleAndReturnFlow(t *testing.T) {
	db := startPostgres(t).DB
	ctx := context.Background()

	p := seedProduct(t, db, "Widget", 10, "5.00", nil)
	order := seedCompletedOrder(t, db, "Ana", time.Now(), line(p.ID, 3, "2.00"))

	scope := NewGormTransactionScope(db)
	sale, err := trade.NewSale(order, "", time.Now(), []trade.LineInput{line(p.ID, 3, "5.00")})
	require.NoError(t, err)
	require.NoError(t, scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		return repos.Stock().AdjustStock(ctx, p.ID, -3)
	}))
	assert.Equal(t, 7, quantityOf(t, db, p.ID))

	dup, err := trade.NewSale(order, "", time.Now(), []trade.LineInput{line(p.ID, 1, "5.00")})
	require.NoError(t, err)
	assert.ErrorIs(t, NewGormSaleRepository(db).Create(ctx, dup), shared.ErrAlreadyExists)

	require.NoError(t, NewGormProductRepository(db).AdjustStock(ctx, p.ID, -20))
	assert.Equal(t, -13, quantityOf(t, db, p.ID))

	summary, err := NewGormSaleRepository(db).Summarize(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)
	assert.True(t, summary.Total.Equal(decimal.NewFromInt(15)))

	require.NoError(t, NewGormOrderRepository(db).Delete(ctx, order.ID))
	_, err = NewGormSaleRepository(db).FindByID(ctx, sale.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
