package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/miniapp/internal/modules/miniapp/events"
	"github.com/nfrund/miniapp/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	s := &Stats{}
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	s.record("verified", false, t2)
	s.record("verified", true, t1)
	s.record("failed", false, t1)
	s.record("checking", false, t1)

	assert.Equal(t, Snapshot{Verified: 2, Failed: 1, Bypassed: 1, Last: t2}, s.Snapshot())
}

func TestSubscriber_Handle(t *testing.T) {
	s := &Stats{}
	sub := NewSubscriber(nil, s)

	err := sub.handle(context.Background(), pubsub.Message{Payload: []byte(`{"attempt_id":"a","state":"failed","error":"HTTP error! status: 403"}`)})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Snapshot().Failed)

	err = sub.handle(context.Background(), pubsub.Message{Payload: []byte(`not json`)})
	assert.Error(t, err)
}

func TestModule(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	m := New(Dependencies{Subscriber: bus, ExposeStats: true})
	assert.Equal(t, "audit", m.Name())
	require.NoError(t, m.Boot(ctx, e.Group("/audit")))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, pubsub.Publish(ctx, bus, events.VerificationOutcome, "9", events.Outcome{
		AttemptID:  "attempt-1",
		State:      "verified",
		StatusCode: 200,
		UserID:     9,
		At:         at,
	}))

	assert.Eventually(t, func() bool {
		return m.Stats().Snapshot().Verified == 1
	}, time.Second, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Verified)
	assert.True(t, at.Equal(snap.Last))

	assert.NoError(t, m.Shutdown(ctx))
}

func TestModule_StatsHidden(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	defer bus.Close()

	e := echo.New()
	m := New(Dependencies{Subscriber: bus})
	require.NoError(t, m.Boot(context.Background(), e.Group("/audit")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
