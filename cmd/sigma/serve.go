package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/hyp3rd/sigma"
	"github.com/hyp3rd/sigma/internal/constants"
	"github.com/hyp3rd/sigma/internal/libs/serializer"
	"github.com/hyp3rd/sigma/internal/settings"
	"github.com/hyp3rd/sigma/pkg/backend"
	redisstore "github.com/hyp3rd/sigma/pkg/backend/redis"
	"github.com/hyp3rd/sigma/pkg/middleware"
)

func buildServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}

			logger, err := newLogger(s.LogLevel)
			if err != nil {
				return err
			}

			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), s, logger)
		},
	}

	cmd.Flags().String("addr", constants.DefaultHTTPAddr, "Address the HTTP server listens on")
	_ = a.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func serve(ctx context.Context, s *settings.Settings, logger *zap.SugaredLogger) error {
	cfg, err := newCalculatorConfig(s, logger)
	if err != nil {
		return err
	}

	calc, err := sigma.New(ctx, cfg)
	if err != nil {
		logger.Errorf("starting calculator: %v", err)

		return err
	}

	logger.Infow("sigma listening", "addr", calc.HTTPAddress(), "backend", calc.BackendName())

	<-ctx.Done()

	logger.Infof("shutting down")

	// the serve context is already cancelled
	err = calc.Stop(context.WithoutCancel(ctx))
	if err != nil {
		logger.Errorf("stopping calculator: %v", err)

		return err
	}

	return nil
}

func newCalculatorConfig(s *settings.Settings, logger *zap.SugaredLogger) (*sigma.Config, error) {
	cfg := sigma.NewConfig(s.Cache.Backend)

	cfg.InMemoryOptions = append(cfg.InMemoryOptions, backend.WithCapacity[backend.InMemory](s.Cache.Capacity))

	if s.Cache.Backend == constants.RedisBackend {
		store, err := redisstore.New(
			redisstore.WithAddr(s.Redis.Addr),
			redisstore.WithPassword(s.Redis.Password),
			redisstore.WithDB(s.Redis.DB),
			redisstore.WithDialTimeout(s.Redis.DialTimeout),
			redisstore.WithPoolSize(s.Redis.PoolSize),
		)
		if err != nil {
			return nil, err
		}

		ser, err := serializer.New(s.Cache.Serializer)
		if err != nil {
			return nil, err
		}

		cfg.RedisOptions = append(cfg.RedisOptions,
			backend.WithRedisClient(store.Client),
			backend.WithCapacity[backend.Redis](s.Cache.Capacity),
			backend.WithTTL(s.Cache.TTL),
			backend.WithSerializer(ser),
		)
	}

	cfg.CalculatorOptions = append(cfg.CalculatorOptions,
		sigma.WithStatsCollector(s.StatsCollector),
		sigma.WithManagementHTTP(s.Addr, sigma.WithHTTPMiddleware(httpMiddlewares(logger)...)),
	)

	return cfg, nil
}

// httpMiddlewares decorates the calculator served over HTTP.
// The stats middleware records into the calculator's own collector so GET /stats reports it.
func httpMiddlewares(logger *zap.SugaredLogger) []sigma.Middleware {
	return []sigma.Middleware{
		func(next sigma.Service) sigma.Service {
			calc, ok := next.(*sigma.Calculator)
			if !ok {
				return next
			}

			return middleware.NewStatsCollectorMiddleware(next, calc.StatsCollector)
		},
		func(next sigma.Service) sigma.Service {
			return middleware.NewLoggingMiddleware(next, logger)
		},
		func(next sigma.Service) sigma.Service {
			mw, err := middleware.NewOTelMetricsMiddleware(next, otel.Meter("github.com/hyp3rd/sigma"))
			if err != nil {
				logger.Errorf("otel metrics disabled: %v", err)

				return next
			}

			return mw
		},
		func(next sigma.Service) sigma.Service {
			return middleware.NewOTelTracingMiddleware(next, otel.Tracer("github.com/hyp3rd/sigma"))
		},
	}
}
