package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"dietmap/agg-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

var ErrMalformedEvent = errors.New("malformed diet event")

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads until ctx is cancelled or the reader is closed. Undecodable
// messages and failed updates are logged and skipped.
func (c *Consumer) Start(ctx context.Context) error {
	log.Info("Starting Aggregation Service consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return err
			}
			log.WithError(err).Error("Error reading message")
			continue
		}

		var event domain.DietEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.WithError(err).WithField("offset", message.Offset).Warn("Error unmarshaling message")
			continue
		}

		if err := c.Process(ctx, event); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"type":   event.Type,
				"log_id": event.LogID,
			}).Error("Error processing diet event")
		}
	}
}

// Process applies one event. Unknown event types are ignored.
func (c *Consumer) Process(ctx context.Context, event domain.DietEvent) error {
	var sign float64
	switch event.Type {
	case domain.EventDietLogged:
		sign = 1
	case domain.EventDietRemoved:
		sign = -1
	case domain.EventDietUpdated:
		return c.applyPortionChange(ctx, event)
	default:
		log.WithField("type", event.Type).Debug("Ignoring event")
		return nil
	}
	if event.ItemID <= 0 || !(event.PortionSize > 0) {
		return fmt.Errorf("%w: item %d portion %v", ErrMalformedEvent, event.ItemID, event.PortionSize)
	}

	if err := c.Store.UpdatePopularity(ctx, event, sign); err != nil {
		return fmt.Errorf("update popularity: %w", err)
	}
	if err := c.Store.AdjustTimesLogged(ctx, event.ItemID, int(sign)); err != nil {
		return fmt.Errorf("adjust times logged: %w", err)
	}

	log.WithFields(log.Fields{
		"type":    event.Type,
		"item_id": event.ItemID,
		"user_id": event.UserID,
	}).Debug("Processed diet event")
	return nil
}

func (c *Consumer) applyPortionChange(ctx context.Context, event domain.DietEvent) error {
	if event.ItemID <= 0 || !(event.PortionSize > 0) || !(event.PreviousPortion > 0) {
		return fmt.Errorf("%w: item %d portion %v -> %v", ErrMalformedEvent,
			event.ItemID, event.PreviousPortion, event.PortionSize)
	}
	delta := event.PortionSize - event.PreviousPortion
	if delta == 0 {
		return nil
	}
	if err := c.Store.AdjustPortion(ctx, event, delta); err != nil {
		return fmt.Errorf("adjust portion: %w", err)
	}
	return nil
}
