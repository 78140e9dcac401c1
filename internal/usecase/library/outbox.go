package library

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/project/quickstart/internal/usecase/repository"
)

// sendEvent stores a change notification in the outbox within the caller's
// transaction. Keys are unique per event so repeated updates of the same
// record are all delivered.
func (l *libraryImpl) sendEvent(ctx context.Context, kind repository.OutboxKind, key string, payload any) error {
	serialized, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)

	if err != nil {
		return fmt.Errorf("can not serialize %s event: %w", kind, err)
	}

	idempotencyKey := kind.String() + "_" + key + "_" + uuid.NewString()

	return l.outboxRepository.SendMessage(ctx, idempotencyKey, kind, serialized)
}
