package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering/app/ordering"
	"ordering/config"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func decodeFirst[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewBufferString(out)).Decode(&v))
	return v
}

func TestCustomerCreate(t *testing.T) {
	out, _, err := run(t, "customer", "create", "--name", "Ada Lovelace", "--email", "ada@example.com")
	require.NoError(t, err)

	got := decodeFirst[ordering.CustomerOutput](t, out)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.NotEmpty(t, got.ID)
	assert.Nil(t, got.DeletedAt)
}

func TestCustomerCreate_ValidationErrors(t *testing.T) {
	out, errOut, err := run(t, "customer", "create", "--name", "Al", "--email", "not-an-email")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "MIN_LENGTH_ERROR")
	assert.Contains(t, errOut, "EMAIL_FORMAT_ERROR")
}

func TestOrderCreate_MissingFields(t *testing.T) {
	_, errOut, err := run(t, "order", "create")
	require.Error(t, err)
	assert.Contains(t, errOut, "The field customer_id is required")
	assert.Contains(t, errOut, "The field total is required")
}

func TestOrderCreate_SyncPublisherWithMetrics(t *testing.T) {
	t.Setenv(config.EnvPrefix+"EVENTS_PUBLISHER", config.PublisherSync)

	out, errOut, err := run(t, "--metrics", "order", "create",
		"--customer-id", "6f1c2b44-8a36-4d1e-9a55-0d8f3c1e2a7b", "--total", "42.50")
	require.NoError(t, err)

	got := decodeFirst[ordering.OrderOutput](t, out)
	assert.Equal(t, "6f1c2b44-8a36-4d1e-9a55-0d8f3c1e2a7b", got.CustomerID)
	assert.Equal(t, 42.5, got.Total)

	assert.Contains(t, out, "ordering_events_published_total{event_type=OrderCreatedEvent,outcome=success,topic=order-events} 1")
	assert.Contains(t, errOut, "OrderCreatedEvent")
}

func TestOrderLifecycle_SQLite(t *testing.T) {
	t.Setenv(config.EnvPrefix+"STORAGE_DRIVER", config.StorageSQLite)
	t.Setenv(config.EnvPrefix+"STORAGE_DSN", filepath.Join(t.TempDir(), "ordering.db"))
	t.Setenv(config.EnvPrefix+"STORAGE_CACHE_SIZE", "16")

	out, _, err := run(t, "order", "create",
		"--customer-id", "6f1c2b44-8a36-4d1e-9a55-0d8f3c1e2a7b", "--total", "10")
	require.NoError(t, err)
	created := decodeFirst[ordering.OrderOutput](t, out)

	out, _, err = run(t, "order", "get", "--id", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, decodeFirst[ordering.OrderOutput](t, out).ID)

	out, _, err = run(t, "order", "update-total", "--id", created.ID, "--total", "12.25")
	require.NoError(t, err)
	assert.Equal(t, 12.25, decodeFirst[ordering.OrderOutput](t, out).Total)

	out, _, err = run(t, "order", "delete", "--id", created.ID)
	require.NoError(t, err)
	assert.NotNil(t, decodeFirst[ordering.OrderOutput](t, out).DeletedAt)

	_, errOut, err := run(t, "order", "get", "--id", created.ID)
	require.Error(t, err)
	assert.Contains(t, errOut, created.ID)
}

func TestCustomerUpdate_OnlyChangedFields(t *testing.T) {
	t.Setenv(config.EnvPrefix+"STORAGE_DRIVER", config.StorageSQLite)
	t.Setenv(config.EnvPrefix+"STORAGE_DSN", filepath.Join(t.TempDir(), "ordering.db"))

	out, _, err := run(t, "customer", "create", "--name", "Grace", "--email", "grace@example.com")
	require.NoError(t, err)
	created := decodeFirst[ordering.CustomerOutput](t, out)

	out, _, err = run(t, "customer", "update", "--id", created.ID, "--email", "hopper@example.com")
	require.NoError(t, err)
	updated := decodeFirst[ordering.CustomerOutput](t, out)
	assert.Equal(t, "Grace", updated.Name)
	assert.Equal(t, "hopper@example.com", updated.Email)

	_, _, err = run(t, "customer", "update", "--id", created.ID, "--email", "broken")
	require.Error(t, err)

	out, _, err = run(t, "customer", "get", "--id", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hopper@example.com", decodeFirst[ordering.CustomerOutput](t, out).Email)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "customer", "get", "--id", "x")
	require.Error(t, err)

	t.Setenv(config.EnvPrefix+"EVENTS_PUBLISHER", "carrier-pigeon")
	_, _, err = run(t, "customer", "get", "--id", "x")
	require.Error(t, err)
}

func TestTopics_Deduplicated(t *testing.T) {
	got := topics(map[string]string{"A": "order-events", "B": "audit"})
	assert.Equal(t, []string{"order-events", "customer-events", "audit"}, got)
}

func TestAmount(t *testing.T) {
	assert.Nil(t, amount(""))
	assert.Equal(t, 12.5, amount("12.5"))
	assert.Equal(t, "abc", amount("abc"))
}
