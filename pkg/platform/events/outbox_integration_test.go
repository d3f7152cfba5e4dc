//go:build integration

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	id "cadastre/pkg/domain"
	"cadastre/pkg/platform/events"
	"cadastre/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *events.PostgresStore
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = events.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "property_events"))
}

func (s *OutboxSuite) appendEvent(location id.Location, action events.Action) {
	s.Require().NoError(s.store.Append(context.Background(), events.Event{
		Timestamp: time.Now(),
		Action:    action,
		Location:  location,
		Actor:     "alice",
	}))
}

func (s *OutboxSuite) TestAppendAndListByLocation() {
	ctx := context.Background()
	s.appendEvent("elm", events.ActionPropertyRegistered)
	s.appendEvent("elm", events.ActionStatusChanged)
	s.appendEvent("oak", events.ActionPropertyRegistered)

	listed, err := s.store.ListByLocation(ctx, "elm")
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(events.ActionPropertyRegistered, listed[0].Action)
	s.Equal(events.ActionStatusChanged, listed[1].Action)
}

func (s *OutboxSuite) TestFetchAndMarkPublished() {
	ctx := context.Background()
	s.appendEvent("elm", events.ActionPropertyRegistered)
	s.appendEvent("elm", events.ActionOwnershipTransferred)

	entries, err := s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	s.Require().NoError(s.store.MarkPublished(ctx, ids, time.Now()))

	remaining, err := s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Empty(remaining)

	// The local log still serves published events.
	listed, err := s.store.ListByLocation(ctx, "elm")
	s.Require().NoError(err)
	s.Len(listed, 2)
}

// TestKafkaSinkDelivery drains the outbox into Redpanda and consumes the
// records back.
func TestKafkaSinkDelivery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mgr := containers.GetManager()
	broker := mgr.GetRedpanda(t).Broker
	topic := "cadastre.property-events.test"

	sink, err := events.NewKafkaSink(ctx, []string{broker}, topic, 1)
	if err != nil {
		t.Fatalf("failed to create kafka sink: %v", err)
	}
	defer sink.Close()

	entry := events.OutboxEntry{
		ID:      uuid.New(),
		Payload: []byte(`{"action":"property_registered","location":"elm"}`),
		Event:   events.Event{Action: events.ActionPropertyRegistered, Location: "elm"},
	}
	if err := sink.Publish(ctx, entry); err != nil {
		t.Fatalf("failed to publish entry: %v", err)
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		t.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	if errs := fetches.Errors(); len(errs) > 0 {
		t.Fatalf("fetch errors: %v", errs)
	}
	records := fetches.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if string(records[0].Key) != "elm" {
		t.Fatalf("expected record keyed by location, got %q", records[0].Key)
	}
	if string(records[0].Value) != string(entry.Payload) {
		t.Fatalf("payload mismatch: %s", records[0].Value)
	}
}
