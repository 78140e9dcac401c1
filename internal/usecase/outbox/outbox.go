package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/project/quickstart/config"
	"github.com/project/quickstart/internal/usecase/repository"
	"go.uber.org/zap"
)

type GlobalHandler = func(kind repository.OutboxKind) (KindHandler, error)
type KindHandler = func(ctx context.Context, data []byte) error

type outboxImpl struct {
	logger           *zap.Logger
	outboxRepository repository.OutboxRepository
	globalHandler    GlobalHandler
	cfg              *config.Config
	transactor       repository.Transactor
}

func New(
	logger *zap.Logger,
	outboxRepository repository.OutboxRepository,
	globalHandler GlobalHandler,
	cfg *config.Config,
	transactor repository.Transactor,
) *outboxImpl {
	return &outboxImpl{
		logger:           logger,
		outboxRepository: outboxRepository,
		globalHandler:    globalHandler,
		cfg:              cfg,
		transactor:       transactor,
	}
}

// Start runs workers until ctx is cancelled. It blocks until every worker has
// returned.
func (o *outboxImpl) Start(
	ctx context.Context,
	workers int,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	if !o.cfg.Outbox.Enabled {
		o.logger.Info("Outbox is disabled.")
		return
	}

	wg := new(sync.WaitGroup)

	for workerID := 1; workerID <= workers; workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.worker(ctx, workerID, batchSize, waitTime, inProgressTTL)
		}()
	}

	wg.Wait()
}

func (o *outboxImpl) worker(
	ctx context.Context,
	workerID int,
	batchSize int,
	waitTime time.Duration,
	inProgressTTL time.Duration,
) {
	logger := o.logger.With(zap.Int("worker", workerID))

	ticker := time.NewTicker(waitTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Outbox worker stopped.")
			return
		case <-ticker.C:
		}

		err := o.transactor.WithTx(ctx, func(ctx context.Context) error {
			return o.processBatch(ctx, logger, batchSize, inProgressTTL)
		})

		if err != nil {
			logger.Error("Error while processing outbox batch.", zap.Error(err))
		}
	}
}

func (o *outboxImpl) processBatch(
	ctx context.Context,
	logger *zap.Logger,
	batchSize int,
	inProgressTTL time.Duration,
) error {
	messages, err := o.outboxRepository.GetMessages(ctx, batchSize, inProgressTTL)

	if err != nil {
		return err
	}

	successKeys := make([]string, 0, len(messages))

	for _, message := range messages {
		kindHandler, err := o.globalHandler(message.Kind)

		if err != nil {
			logger.Error("Unsupported outbox message kind.",
				zap.String("idempotency_key", message.IdempotencyKey),
				zap.Stringer("kind", message.Kind),
				zap.Error(err))
			continue
		}

		if err = kindHandler(ctx, message.RawData); err != nil {
			logger.Error("Error while handling outbox message.",
				zap.String("idempotency_key", message.IdempotencyKey),
				zap.Error(err))
			continue
		}

		successKeys = append(successKeys, message.IdempotencyKey)
	}

	if len(successKeys) == 0 {
		return nil
	}

	return o.outboxRepository.MarkAsProcessed(ctx, successKeys)
}
