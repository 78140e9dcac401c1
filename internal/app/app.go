package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/project/quickstart/config"
	"github.com/project/quickstart/db"
	"github.com/project/quickstart/internal/controller"
	"github.com/project/quickstart/internal/usecase/library"
	"github.com/project/quickstart/internal/usecase/outbox"
	"github.com/project/quickstart/internal/usecase/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const readHeaderTimeout = 5 * time.Second

func Run(logger *zap.Logger, cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go runGrpc(cfg, logger, grpcServer)
	defer grpcServer.GracefulStop()

	dbPool, err := pgxpool.New(ctx, cfg.PG.URL)

	if err != nil {
		logger.Error("can not create pgxpool", zap.Error(err))
		return
	}

	defer dbPool.Close()

	if err = dbPool.Ping(ctx); err != nil {
		logger.Error("can not reach postgres", zap.Error(err))
		return
	}

	if err = db.SetupPostgres(ctx, cfg.PG.MigrationURL, logger); err != nil {
		logger.Error("can not apply migrations", zap.Error(err))
		return
	}

	repo := repository.NewPostgresRepository(logger, dbPool)
	outboxRepository := repository.NewOutbox(dbPool)
	transactor := repository.NewTransactor(dbPool, logger)

	sink, closeSink := newOutboxSink(cfg, logger)
	defer closeSink()

	go runOutbox(ctx, cfg, logger, outboxRepository, transactor, sink)

	useCases := library.New(logger, transactor, outboxRepository, repo, repo)

	ctrl := controller.New(logger, useCases, useCases)

	handler, err := ctrl.Handler(cfg.HTTP.MaxBodyBytes)

	if err != nil {
		logger.Error("can not register http routes", zap.Error(err))
		return
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go runRest(server, logger, cancel)

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	<-ctx.Done()

	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("service stopped")
}

// newOutboxSink picks the notification target configured by OUTBOX_SINK.
// The returned func releases whatever the sink holds.
func newOutboxSink(cfg *config.Config, logger *zap.Logger) (outbox.Sink, func()) {
	if cfg.Outbox.Sink == config.OutboxSinkRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return outbox.RedisSink(client, cfg.Outbox.RedisChannel), func() {
			if err := client.Close(); err != nil {
				logger.Error("can not close redis client", zap.Error(err))
			}
		}
	}

	client := outbox.NewHTTPClient()

	return outbox.HTTPSink(client, cfg.Outbox.BookSendURL, cfg.Outbox.AuthorSendURL, logger), client.CloseIdleConnections
}

func runOutbox(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	outboxRepository repository.OutboxRepository,
	transactor repository.Transactor,
	sink outbox.Sink,
) {
	globalHandler := outbox.NewGlobalHandler(sink, logger)
	outboxService := outbox.New(logger, outboxRepository, globalHandler, cfg, transactor)

	outboxService.Start(
		ctx,
		cfg.Outbox.Workers,
		cfg.Outbox.BatchSize,
		cfg.Outbox.WaitTimeMS,
		cfg.Outbox.InProgressTTLMS,
	)
}

func runRest(server *http.Server, logger *zap.Logger, stop context.CancelFunc) {
	logger.Info("http server listening at", zap.String("addr", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server listen error", zap.Error(err))
		stop()
	}
}

func runGrpc(cfg *config.Config, logger *zap.Logger, s *grpc.Server) {
	port := ":" + cfg.GRPC.Port
	lis, err := net.Listen("tcp", port)

	if err != nil {
		logger.Error("can not open tcp socket", zap.Error(err))
		return
	}

	logger.Info("grpc server listening at port", zap.String("port", port))

	if err = s.Serve(lis); err != nil {
		logger.Error("grpc server listen error", zap.Error(err))
	}
}
