package app

import (
	cascadeAPI "clusterpay_backend/internal/api/cascade"
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/config/env"
	"clusterpay_backend/internal/middleware"
	"clusterpay_backend/internal/repository"
	"clusterpay_backend/internal/repository/stats_repo"
	"clusterpay_backend/internal/repository/user_repo"
	"clusterpay_backend/internal/service"
	"clusterpay_backend/internal/service/cascade"
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	logger *zap.Logger

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg config.JWTConfig

	// User bits
	userRepo repository.UserRepository

	// Cascade bits
	cascadeCfg       config.CascadeConfig
	cascadeStatsRepo repository.StatsRepository
	cascadeServ      service.CascadeService
	cascadeHand      *cascadeAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider(logger *zap.Logger) *ServiceProvider {
	return &ServiceProvider{logger: logger}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			sp.logger.Fatal("failed to get database config", zap.Error(err))
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			sp.logger.Fatal("failed to create db pool", zap.Error(err))
		}
		err = dbc.Ping(ctx)
		if err != nil {
			sp.logger.Fatal("failed to ping db", zap.Error(err))
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			sp.logger.Fatal("failed to create tx manager", zap.Error(err))
		}
		sp.txManager = m
	}
	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			sp.logger.Fatal("failed to get jwt config", zap.Error(err))
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) CascadeCfg() config.CascadeConfig {
	if sp.cascadeCfg == nil {
		path := env.CascadeConfigPath()
		cfg, err := env.NewCascadeConfigFromYAML(path)
		if err != nil {
			sp.logger.Fatal("failed to get cascade config", zap.String("path", path), zap.Error(err))
		}
		sp.cascadeCfg = cfg
	}
	return sp.cascadeCfg
}

func (sp *ServiceProvider) CascadeStatsRepository() repository.StatsRepository {
	if sp.cascadeStatsRepo == nil {
		sp.cascadeStatsRepo = stats_repo.NewStatsRepository(stats_repo.DefaultWindowSize)
	}
	return sp.cascadeStatsRepo
}

func (sp *ServiceProvider) CascadeService(ctx context.Context) service.CascadeService {
	if sp.cascadeServ == nil {
		serv, err := cascade.NewCascadeService(
			sp.CascadeCfg(),
			sp.UserRepo(ctx),
			sp.CascadeStatsRepository(),
			sp.TXManager(ctx),
			sp.logger.Named("cascade"),
		)
		if err != nil {
			sp.logger.Fatal("failed to create cascade service", zap.Error(err))
		}
		sp.cascadeServ = serv
	}
	return sp.cascadeServ
}

func (sp *ServiceProvider) CascadeHandler(ctx context.Context) *cascadeAPI.Handler {
	if sp.cascadeHand == nil {
		sp.cascadeHand = cascadeAPI.NewHandler(cascadeAPI.HandlerDeps{
			Serv:   sp.CascadeService(ctx),
			Logger: sp.logger.Named("http"),
		})
	}
	return sp.cascadeHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			sp.logger.Fatal("failed to get http config", zap.Error(err))
		}
		sp.httpCfg = cfg
	}
	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Cascade endpoints
		cascadeHandler := sp.CascadeHandler(ctx)
		r.Route("/cascade", func(rr chi.Router) {
			rr.Get("/stats", cascadeHandler.Stats)

			rr.Group(func(pr chi.Router) {
				pr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey(), sp.logger.Named("auth")))
				pr.Post("/spin", cascadeHandler.Spin)
				pr.Post("/deposit", cascadeHandler.Deposit)
				pr.Get("/check-data", cascadeHandler.CheckData)
			})
		})

		sp.router = r
	}
	return sp.router
}

func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
}
