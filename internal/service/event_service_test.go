package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-recs-be/internal/dto"
	"ecommerce-recs-be/internal/pkg/logger"
	"ecommerce-recs-be/pkg/events"
)

func TestTrackPersistsAndPublishes(t *testing.T) {
	repo := &fakeEventRepo{}
	pub := &fakePublisher{}
	svc := NewEventService(repo, pub, logger.NewNopLogger())

	userId := uuid.New()
	productId := uuid.New()
	res, err := svc.Track(context.Background(), &userId, &dto.TrackEventRequest{
		EventType: events.TypeCartAdd,
		SessionId: "s-9",
		ProductId: &productId,
	})
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.NotEqual(t, uuid.Nil, res.EventId)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, events.TypeCartAdd, stored[0].EventType)
	assert.Equal(t, "s-9", stored[0].SessionId)
	require.NotNil(t, stored[0].UserId)
	assert.Equal(t, userId, *stored[0].UserId)

	assert.Equal(t, 1, pub.count())
}

func TestTrackAnonymousSession(t *testing.T) {
	repo := &fakeEventRepo{}
	pub := &fakePublisher{}
	svc := NewEventService(repo, pub, logger.NewNopLogger())

	res, err := svc.Track(context.Background(), nil, &dto.TrackEventRequest{
		EventType: events.TypeView,
		SessionId: "anon-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].UserId)
}

func TestTrackBrokerDownStillAccepts(t *testing.T) {
	repo := &fakeEventRepo{}
	pub := &fakePublisher{err: assert.AnError}
	svc := NewEventService(repo, pub, logger.NewNopLogger())

	res, err := svc.Track(context.Background(), nil, &dto.TrackEventRequest{
		EventType: events.TypeView,
		SessionId: "s-1",
	})
	require.NoError(t, err, "a broker outage must not fail tracking")
	assert.False(t, res.Delivered)
	assert.Len(t, repo.stored(), 1)
}

func TestTrackStorageFailureFails(t *testing.T) {
	repo := &fakeEventRepo{saveErr: assert.AnError}
	pub := &fakePublisher{}
	svc := NewEventService(repo, pub, logger.NewNopLogger())

	_, err := svc.Track(context.Background(), nil, &dto.TrackEventRequest{
		EventType: events.TypeView,
		SessionId: "s-1",
	})
	require.Error(t, err)
	assert.Equal(t, 0, pub.count(), "nothing published when the event was not stored")
}
