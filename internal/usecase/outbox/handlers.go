package outbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/project/quickstart/internal/entity"
	"github.com/project/quickstart/internal/usecase/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dialerTimeout = 30
const dialerKeepAlive = 180
const transportMaxIdleConns = 100
const transportMaxConnsPerHost = 100
const transportIdleConnTimeout = 90
const transportTLSHandshakeTimeout = 15
const transportExpectContinueTimeout = 2
const httpMinErrorStatus = 400

// Notification is what subscribers receive for every stored change.
type Notification struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Publisher is satisfied by *redis.Client.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Sink delivers a single notification.
type Sink func(ctx context.Context, kind repository.OutboxKind, n Notification) error

func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   dialerTimeout * time.Second,
		KeepAlive: dialerKeepAlive * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          transportMaxIdleConns,
		MaxConnsPerHost:       transportMaxConnsPerHost,
		IdleConnTimeout:       transportIdleConnTimeout * time.Second,
		TLSHandshakeTimeout:   transportTLSHandshakeTimeout * time.Second,
		ExpectContinueTimeout: transportExpectContinueTimeout * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
	}

	client := new(http.Client)
	client.Transport = transport

	return client
}

// HTTPSink posts book notifications to bookURL and author notifications to
// authorURL. An empty URL drops notifications of that family.
func HTTPSink(client *http.Client, bookURL, authorURL string, logger *zap.Logger) Sink {
	return func(ctx context.Context, kind repository.OutboxKind, n Notification) error {
		url := bookURL
		if kind == repository.OutboxKindAuthor || kind == repository.OutboxKindAuthorDeleted {
			url = authorURL
		}

		if url == "" {
			return nil
		}

		return SendNotification(ctx, client, url, n, logger)
	}
}

func SendNotification(ctx context.Context, client *http.Client, url string, n Notification, logger *zap.Logger) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(n)

	if err != nil {
		return fmt.Errorf("can not serialize notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))

	if err != nil {
		return fmt.Errorf("error while building post request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)

	if err != nil {
		return fmt.Errorf("error while processing post request: %w", err)
	}

	defer func() {
		err = resp.Body.Close()
		if err != nil {
			logger.Error("Error while closing response body.", zap.Error(err))
		}
	}()

	if resp.StatusCode >= httpMinErrorStatus {
		return errors.New("http error: " + resp.Status)
	}

	return nil
}

// RedisSink publishes every notification to a single pub/sub channel.
func RedisSink(publisher Publisher, channel string) Sink {
	return func(ctx context.Context, _ repository.OutboxKind, n Notification) error {
		payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(n)

		if err != nil {
			return fmt.Errorf("can not serialize notification: %w", err)
		}

		if err = publisher.Publish(ctx, channel, payload).Err(); err != nil {
			return fmt.Errorf("error while publishing to %s: %w", channel, err)
		}

		return nil
	}
}

// NewGlobalHandler decodes stored events into notifications and hands them
// to sink.
func NewGlobalHandler(sink Sink, logger *zap.Logger) GlobalHandler {
	return func(kind repository.OutboxKind) (KindHandler, error) {
		switch kind {
		case repository.OutboxKindBook, repository.OutboxKindBookDeleted:
			return bookOutboxHandler(kind, sink, logger), nil
		case repository.OutboxKindAuthor, repository.OutboxKindAuthorDeleted:
			return authorOutboxHandler(kind, sink, logger), nil
		default:
			return nil, fmt.Errorf("unsupported outbox kind: %d", kind)
		}
	}
}

func bookOutboxHandler(kind repository.OutboxKind, sink Sink, logger *zap.Logger) KindHandler {
	return func(ctx context.Context, data []byte) error {
		book := entity.Book{}
		err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &book)

		if err != nil {
			logger.Error("error while deserializing data in book.")
			return fmt.Errorf("can not deserialize data in book outbox handler: %w", err)
		}

		return sink(ctx, kind, Notification{Kind: kind.String(), ID: book.ISBN})
	}
}

func authorOutboxHandler(kind repository.OutboxKind, sink Sink, logger *zap.Logger) KindHandler {
	return func(ctx context.Context, data []byte) error {
		author := entity.Author{}
		err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &author)

		if err != nil {
			logger.Error("error while deserializing data in author.")
			return fmt.Errorf("can not deserialize data in author outbox handler: %w", err)
		}

		return sink(ctx, kind, Notification{Kind: kind.String(), ID: strconv.FormatInt(author.ID, 10)})
	}
}
