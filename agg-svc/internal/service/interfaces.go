package service

import (
	"context"

	"dietmap/agg-svc/internal/domain"
	"dietmap/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	UpdatePopularity(ctx context.Context, event domain.DietEvent, sign float64) error
	AdjustPortion(ctx context.Context, event domain.DietEvent, delta float64) error
	AdjustTimesLogged(ctx context.Context, itemID, delta int) error
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event domain.DietEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
