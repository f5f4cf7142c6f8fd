package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	appasset "github.com/assetreg/backend/internal/application/asset"
	appidentity "github.com/assetreg/backend/internal/application/identity"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *mockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testAMQPConfig() config.AMQPConfig {
	return config.AMQPConfig{
		Enabled:      true,
		ExchangeName: "assets.notifications",
		QueueName:    "warranty-expiry",
	}
}

func sampleNotification() appasset.WarrantyNotification {
	return appasset.WarrantyNotification{
		PurchaseID:    uuid.New(),
		AssetID:       uuid.New(),
		AssetName:     "ThinkPad T14",
		InvoiceNumber: "INV-001",
		ExpiryDate:    "2024-06-15",
		To:            []string{"alice@example.com"},
		Cc:            []string{"ops@example.com"},
		Subject:       "Asset Expiry Alert: ThinkPad T14",
	}
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := new(mockChannel)
	p := newPublisher(ch, testAMQPConfig(), zap.NewNop())
	n := sampleNotification()

	var published amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, "assets.notifications", "warranty-expiry", false, false, mock.AnythingOfType("amqp091.Publishing")).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(defaultPublishTimeout), deadline, time.Second)
			published = args.Get(5).(amqp.Publishing)
		}).
		Return(nil).Once()

	require.NoError(t, p.PublishWarrantyNotification(context.Background(), n))
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, amqp.Persistent, published.DeliveryMode)
	assert.Equal(t, MessageTypeWarrantyExpiry, published.Type)
	assert.Equal(t, n.PurchaseID.String(), published.MessageId)

	var decoded appasset.WarrantyNotification
	require.NoError(t, json.Unmarshal(published.Body, &decoded))
	assert.Equal(t, n, decoded)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := new(mockChannel)
	p := newPublisher(ch, testAMQPConfig(), zap.NewNop())

	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, false, false, mock.Anything).
		Return(amqp.ErrClosed).Once()

	err := p.PublishWarrantyNotification(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}

func TestAMQPPublisher_Close(t *testing.T) {
	ch := new(mockChannel)
	p := newPublisher(ch, testAMQPConfig(), zap.NewNop())

	ch.On("Close").Return(nil).Once()

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	ch.AssertNumberOfCalls(t, "Close", 1)

	err := p.PublishWarrantyNotification(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func sampleResetNotification(expiresIn time.Duration) appidentity.PasswordResetNotification {
	return appidentity.PasswordResetNotification{
		CodeID:    uuid.New(),
		UserID:    uuid.New(),
		Email:     "alice@example.com",
		Name:      "Alice",
		Code:      "042917",
		ExpiresAt: time.Now().Add(expiresIn),
		Subject:   "Password reset code",
	}
}

func TestAMQPPublisher_PublishPasswordReset(t *testing.T) {
	t.Run("message expires with the code", func(t *testing.T) {
		ch := new(mockChannel)
		p := newPublisher(ch, testAMQPConfig(), zap.NewNop())
		n := sampleResetNotification(5 * time.Minute)

		var published amqp.Publishing
		ch.On("PublishWithContext", mock.Anything, "assets.notifications", "warranty-expiry", false, false, mock.AnythingOfType("amqp091.Publishing")).
			Run(func(args mock.Arguments) {
				published = args.Get(5).(amqp.Publishing)
			}).
			Return(nil).Once()

		require.NoError(t, p.PublishPasswordReset(context.Background(), n))
		ch.AssertExpectations(t)

		assert.Equal(t, MessageTypePasswordReset, published.Type)
		assert.Equal(t, n.CodeID.String(), published.MessageId)
		ttl, err := strconv.ParseInt(published.Expiration, 10, 64)
		require.NoError(t, err)
		assert.InDelta(t, (5 * time.Minute).Milliseconds(), ttl, float64(time.Second.Milliseconds()))

		var decoded appidentity.PasswordResetNotification
		require.NoError(t, json.Unmarshal(published.Body, &decoded))
		assert.Equal(t, n.Code, decoded.Code)
		assert.Equal(t, n.Email, decoded.Email)
	})

	t.Run("expired code is not sent", func(t *testing.T) {
		ch := new(mockChannel)
		p := newPublisher(ch, testAMQPConfig(), zap.NewNop())

		err := p.PublishPasswordReset(context.Background(), sampleResetNotification(-time.Second))
		assert.Error(t, err)
		ch.AssertNotCalled(t, "PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	assert.NoError(t, p.PublishWarrantyNotification(context.Background(), sampleNotification()))
	assert.NoError(t, p.PublishPasswordReset(context.Background(), sampleResetNotification(time.Minute)))
	assert.NoError(t, p.Close())
}
