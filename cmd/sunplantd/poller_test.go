package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/mqttpub"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/testutil"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
)

type doneToken struct{ done chan struct{} }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{}          { return t.done }
func (t doneToken) Error() error                   { return nil }

type recordingClient struct {
	mu     sync.Mutex
	topics []string
}

func (c *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	done := make(chan struct{})
	close(done)
	return doneToken{done: done}
}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics)
}

func newTestPoller(t *testing.T) (*poller, *timeutil.MockClock, *recordingClient) {
	t.Helper()
	monitoring.SetLogger(nil)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	clock := timeutil.NewMockClock(time.Date(2025, 12, 21, 12, 0, 0, 0, ny))

	store, err := db.NewDB(filepath.Join(t.TempDir(), "sunplantd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := &recordingClient{}
	p := &poller{
		sensor:    service.NewSensor(config.NewCache(testutil.WriteSiteFile(t)), clock),
		store:     store,
		publisher: mqttpub.NewPublisher(client, "sunplant/test"),
		retention: 24 * time.Hour,
	}
	return p, clock, client
}

func TestTickRecordsAndPublishesChanges(t *testing.T) {
	p, clock, client := newTestPoller(t)
	ctx := context.Background()

	d, err := p.tick(ctx)
	require.NoError(t, err)
	require.NotNil(t, d.Time)
	assert.Equal(t, 2, client.count(), "attributes and state")

	last, ok, err := p.store.LastObservation()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.IsHit, last.IsHit)
	assert.Equal(t, d.State, last.State())

	// Same state a minute later: recorded, not republished.
	clock.Set(clock.Now().Add(time.Minute))
	_, err = p.tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, client.count())

	// Night changes the state.
	clock.Set(clock.Now().Add(12 * time.Hour))
	d, err = p.tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.StateBelowHorizon, d.State)
	assert.Equal(t, 4, client.count())

	obs, err := p.store.Observations(10)
	require.NoError(t, err)
	assert.Len(t, obs, 3)
}

func TestTickPrunesOldObservations(t *testing.T) {
	p, clock, _ := newTestPoller(t)
	ctx := context.Background()

	_, err := p.tick(ctx)
	require.NoError(t, err)
	clock.Set(clock.Now().Add(48 * time.Hour))
	_, err = p.tick(ctx)
	require.NoError(t, err)

	obs, err := p.store.Observations(10)
	require.NoError(t, err)
	assert.Len(t, obs, 1)
}

func TestTickWithoutStoreOrPublisher(t *testing.T) {
	p, _, _ := newTestPoller(t)
	p.store = nil
	p.publisher = nil
	_, err := p.tick(context.Background())
	assert.NoError(t, err)
}

func TestRunTicksOnInterval(t *testing.T) {
	p, clock, _ := newTestPoller(t)
	p.publisher = nil
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.run(ctx, time.Minute)
		close(done)
	}()

	countObs := func() int {
		obs, err := p.store.Observations(100)
		if err != nil {
			return -1
		}
		return len(obs)
	}
	require.Eventually(t, func() bool { return countObs() == 1 }, 5*time.Second, 10*time.Millisecond)
	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return countObs() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
