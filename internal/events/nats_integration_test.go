//go:build integration

package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natsURL() string {
	if v := os.Getenv("NATS_URL"); v != "" {
		return v
	}
	return nats.DefaultURL
}

func TestNATSBus_PubSub(t *testing.T) {
	bus, err := ConnectNATS(natsURL(), "api-ia-test", "test.inventory.refreshed")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	got := make(chan InventoryRefreshed, 1)
	stop, err := bus.Subscribe(context.Background(), func(_ context.Context, evt InventoryRefreshed) {
		got <- evt
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, bus.Publish(context.Background(), InventoryRefreshed{SnapshotID: "snap-1", Vehicles: 3}))

	select {
	case evt := <-got:
		assert.Equal(t, "snap-1", evt.SnapshotID)
		assert.Equal(t, 3, evt.Vehicles)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}
