package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ OutboxRepository = (*outboxRepository)(nil)

type outboxRepository struct {
	db *pgxpool.Pool
}

func NewOutbox(db *pgxpool.Pool) *outboxRepository {
	return &outboxRepository{
		db: db,
	}
}

func (o *outboxRepository) conn(ctx context.Context) Querier {
	if tx, err := extractTx(ctx); err == nil {
		return tx
	}
	return o.db
}

func (o *outboxRepository) SendMessage(ctx context.Context, idempotencyKey string, kind OutboxKind, message []byte) error {
	const query = `
INSERT INTO outbox (idempotency_key, data, status, kind)
VALUES ($1, $2, 'CREATED', $3)
ON CONFLICT (idempotency_key) DO NOTHING
`

	if _, err := o.conn(ctx).Exec(ctx, query, idempotencyKey, message, int(kind)); err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}

	return nil
}

// GetMessages claims up to batchSize messages that are new or whose previous
// claim is older than inProgressTTL.
func (o *outboxRepository) GetMessages(ctx context.Context, batchSize int, inProgressTTL time.Duration) ([]OutboxData, error) {
	const query = `
UPDATE outbox
SET status = 'IN_PROGRESS', updated_at = now()
WHERE idempotency_key IN (
    SELECT idempotency_key
    FROM outbox
    WHERE status = 'CREATED'
       OR (status = 'IN_PROGRESS' AND updated_at < now() - $2::interval)
    ORDER BY created_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
RETURNING idempotency_key, data, kind
`

	interval := fmt.Sprintf("%d milliseconds", inProgressTTL.Milliseconds())

	rows, err := o.conn(ctx).Query(ctx, query, batchSize, interval)
	if err != nil {
		return nil, fmt.Errorf("claim outbox messages: %w", err)
	}

	defer rows.Close()

	result := make([]OutboxData, 0, batchSize)

	for rows.Next() {
		var (
			data OutboxData
			kind int
		)

		if err := rows.Scan(&data.IdempotencyKey, &data.RawData, &kind); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}

		data.Kind = OutboxKind(kind)
		result = append(result, data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox messages: %w", err)
	}

	return result, nil
}

func (o *outboxRepository) MarkAsProcessed(ctx context.Context, idempotencyKeys []string) error {
	if len(idempotencyKeys) == 0 {
		return nil
	}

	const query = `
UPDATE outbox
SET status = 'SUCCESS', updated_at = now()
WHERE idempotency_key = ANY($1)
`

	if _, err := o.conn(ctx).Exec(ctx, query, idempotencyKeys); err != nil {
		return fmt.Errorf("mark outbox messages as processed: %w", err)
	}

	return nil
}
