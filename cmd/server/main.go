package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pruthvirajsm/bank-ledger/internal/accountdelivery"
	"github.com/pruthvirajsm/bank-ledger/internal/accountrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/accountservice"
	"github.com/pruthvirajsm/bank-ledger/internal/customerdelivery"
	"github.com/pruthvirajsm/bank-ledger/internal/customerrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/customerservice"
	"github.com/pruthvirajsm/bank-ledger/internal/domain"
	"github.com/pruthvirajsm/bank-ledger/internal/ledgerdelivery"
	"github.com/pruthvirajsm/bank-ledger/internal/ledgerrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/ledgerservice"
	"github.com/pruthvirajsm/bank-ledger/internal/middleware"
	"github.com/pruthvirajsm/bank-ledger/internal/movementdelivery"
	"github.com/pruthvirajsm/bank-ledger/internal/movementrepo"
	"github.com/pruthvirajsm/bank-ledger/internal/movementservice"
	"github.com/pruthvirajsm/bank-ledger/pkg/configpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/dbpkg"
	"github.com/pruthvirajsm/bank-ledger/pkg/web"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	if err := runMigrations(conn, config.MigrationPath); err != nil {
		logger.Fatal().Err(err).Msg("cannot run migrations")
	}

	server := createServer(conn, logger, config)

	if err := server.Run(config.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func runMigrations(conn *sql.DB, path string) error {
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func createServer(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) *gin.Engine {
	customerRepo := customerrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	movementRepo := movementrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn, config.LockTimeout)

	accountService := accountservice.New(accountRepo)
	customerService := customerservice.New(customerRepo, accountService)
	movementService := movementservice.New(movementRepo)
	ledgerService := ledgerservice.New(ledgerRepo)

	customerHandler := customerdelivery.NewHandler(customerService)
	accountHandler := accountdelivery.NewHandler(accountService)
	movementHandler := movementdelivery.NewHandler(movementService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountkind", accountdelivery.ValidAccountKind); err != nil {
			logger.Fatal().Err(err).Msg("cannot register accountkind validator")
		}
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger))

	router.POST("/customers", customerHandler.Register)
	router.GET("/customers", customerHandler.Search)
	router.GET("/customers/:id", customerHandler.Get)
	router.PUT("/customers/:id", customerHandler.Update)
	router.DELETE("/customers/:id", customerHandler.Delete)
	router.GET("/customers/:id/accounts", accountHandler.ListByCustomer)

	router.POST("/accounts", accountHandler.Create)
	router.GET("/accounts", accountHandler.List)
	router.GET("/accounts/:id", accountHandler.Get)

	router.POST("/accounts/:id/deposits", ledgerHandler.Deposit)
	router.POST("/accounts/:id/withdrawals", ledgerHandler.Withdraw)
	router.POST("/transfers", ledgerHandler.Transfer)

	router.GET("/accounts/:id/movements", movementHandler.History)
	router.GET("/accounts/:id/summary", movementHandler.Summary)
	router.GET("/movements", movementHandler.List)
	router.GET("/movements/recent", movementHandler.Recent)
	router.GET("/movements/:id", movementHandler.Get)

	router.GET("/stats", statsHandler(customerService, accountService, movementService))

	return router
}

type stats struct {
	Customers       int64             `json:"customers"`
	Accounts        int64             `json:"accounts"`
	Movements       int64             `json:"movements"`
	AccountsByKind  map[string]int64  `json:"accounts_by_kind"`
	RecentMovements []domain.Movement `json:"recent_movements"`
}

type customerCounter interface {
	Count(ctx context.Context) (int64, error)
}

type accountStatsProvider interface {
	Count(ctx context.Context) (int64, error)
	ListByKind(ctx context.Context, kind string) ([]domain.Account, error)
}

type movementStatsProvider interface {
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int32) ([]domain.Movement, error)
}

func statsHandler(cs customerCounter, as accountStatsProvider, ms movementStatsProvider) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := gctx.Request.Context()

		s := stats{AccountsByKind: make(map[string]int64, len(domain.AccountKinds))}

		var err error

		if s.Customers, err = cs.Count(ctx); err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
			return
		}

		if s.Accounts, err = as.Count(ctx); err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
			return
		}

		if s.Movements, err = ms.Count(ctx); err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
			return
		}

		for _, kind := range domain.AccountKinds {
			accounts, err := as.ListByKind(ctx, string(kind))
			if err != nil {
				gctx.JSON(http.StatusInternalServerError, web.Error(err))
				return
			}

			s.AccountsByKind[string(kind)] = int64(len(accounts))
		}

		if s.RecentMovements, err = ms.Recent(ctx, 5); err != nil {
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
			return
		}

		gctx.JSON(http.StatusOK, web.Response{Data: s})
	}
}
