package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"dietmap/agg-svc/internal/domain"
	"dietmap/agg-svc/internal/mocks"
	"dietmap/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func event(eventType string) domain.DietEvent {
	return domain.DietEvent{
		Type:         eventType,
		LogID:        5,
		UserID:       12,
		ItemID:       42,
		RestaurantID: 7,
		Calories:     555,
		PortionSize:  1.5,
		Timestamp:    time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func updatedEvent(previous float64) domain.DietEvent {
	e := event(domain.EventDietUpdated)
	e.PreviousPortion = previous
	return e
}

func TestConsumer_Process(t *testing.T) {
	tests := []struct {
		name           string
		input          domain.DietEvent
		setupMockStore func(*mocks.StoreInterface)
		wantErr        bool
	}{
		{
			name:  "logged",
			input: event(domain.EventDietLogged),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("UpdatePopularity", mock.Anything, event(domain.EventDietLogged), 1.0).Return(nil).Once()
				mockStore.On("AdjustTimesLogged", mock.Anything, 42, 1).Return(nil).Once()
			},
		},
		{
			name:  "removed",
			input: event(domain.EventDietRemoved),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("UpdatePopularity", mock.Anything, event(domain.EventDietRemoved), -1.0).Return(nil).Once()
				mockStore.On("AdjustTimesLogged", mock.Anything, 42, -1).Return(nil).Once()
			},
		},
		{
			name:  "updated applies the portion difference",
			input: updatedEvent(1),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("AdjustPortion", mock.Anything, updatedEvent(1), 0.5).Return(nil).Once()
			},
		},
		{
			name:           "updated to the same portion is ignored",
			input:          updatedEvent(1.5),
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:           "updated without previous portion is rejected",
			input:          updatedEvent(0),
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
			wantErr:        true,
		},
		{
			name:  "updated redis error",
			input: updatedEvent(3),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("AdjustPortion", mock.Anything, updatedEvent(3), -1.5).Return(errors.New("redis error")).Once()
			},
			wantErr: true,
		},
		{
			name:  "redis error stops before the counter",
			input: event(domain.EventDietLogged),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("UpdatePopularity", mock.Anything, mock.Anything, 1.0).Return(errors.New("redis error")).Once()
			},
			wantErr: true,
		},
		{
			name:  "db error",
			input: event(domain.EventDietLogged),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("UpdatePopularity", mock.Anything, mock.Anything, 1.0).Return(nil).Once()
				mockStore.On("AdjustTimesLogged", mock.Anything, 42, 1).Return(errors.New("db connection failed")).Once()
			},
			wantErr: true,
		},
		{
			name:           "unknown type is ignored",
			input:          event("new_review"),
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:           "missing item is rejected",
			input:          domain.DietEvent{Type: domain.EventDietLogged, PortionSize: 1},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
			wantErr:        true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &service.Consumer{
				Store: mockStore,
			}

			err := consumer.Process(context.Background(), testCase.input)
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// scriptedReader replays messages, then reports io.EOF like a closed reader.
type scriptedReader struct {
	messages []kafka.Message
	errs     []error
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return kafka.Message{}, err
	}
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func TestConsumer_StartSkipsBadMessages(t *testing.T) {
	payload, err := json.Marshal(event(domain.EventDietLogged))
	require.NoError(t, err)

	reader := &scriptedReader{
		errs: []error{errors.New("broker hiccup")},
		messages: []kafka.Message{
			{Value: []byte("{not json")},
			{Value: payload},
		},
	}
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("UpdatePopularity", mock.Anything, mock.Anything, 1.0).Return(nil).Once()
	mockStore.On("AdjustTimesLogged", mock.Anything, 42, 1).Return(nil).Once()

	err = service.NewConsumer(reader, mockStore).Start(context.Background())

	assert.ErrorIs(t, err, io.EOF)
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := &scriptedReader{errs: []error{context.Canceled}}

	err := service.NewConsumer(reader, mocks.NewStoreInterface(t)).Start(ctx)

	assert.NoError(t, err)
}
