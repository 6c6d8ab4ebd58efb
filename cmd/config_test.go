package cmd_test

import (
	"log/slog"
	"testing"
	"time"

	"orderflow/cmd"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() cmd.Config {
	return cmd.Config{
		LedgerDriver:       cmd.LedgerMemory,
		OrchestratorDriver: cmd.OrchestratorLocal,
		CallbackTTL:        48 * time.Hour,
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("postgres needs a connection", func(t *testing.T) {
		c := validConfig()
		c.LedgerDriver = cmd.LedgerPostgres
		assert.ErrorIs(t, c.Validate(), errs.ErrValueIsRequired)

		c.DBURL = "postgres://u:p@localhost/orders"
		assert.NoError(t, c.Validate())
	})

	t.Run("restate needs an ingress and a durable ledger", func(t *testing.T) {
		c := validConfig()
		c.OrchestratorDriver = cmd.OrchestratorRestate
		err := c.Validate()
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown drivers", func(t *testing.T) {
		c := validConfig()
		c.LedgerDriver = "sqlite"
		c.OrchestratorDriver = "temporal"
		err := c.Validate()
		assert.Contains(t, err.Error(), "LEDGER_DRIVER")
		assert.Contains(t, err.Error(), "ORCHESTRATOR_DRIVER")
	})

	t.Run("kafka settings come in pairs", func(t *testing.T) {
		c := validConfig()
		c.KafkaHost = "localhost:9092"
		assert.Error(t, c.Validate())

		c.KafkaOrderChangedTopic = "order.status_changed"
		assert.NoError(t, c.Validate())
	})

	t.Run("ttl must be positive", func(t *testing.T) {
		c := validConfig()
		c.CallbackTTL = 0
		assert.ErrorIs(t, c.Validate(), errs.ErrValueIsOutOfRange)
	})
}

func TestConfig_KafkaBrokers(t *testing.T) {
	c := cmd.Config{KafkaHost: "k1:9092, k2:9092,,"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers())
	assert.Empty(t, cmd.Config{}.KafkaBrokers())
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, cmd.Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, cmd.Config{LogLevel: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, cmd.Config{LogLevel: "loud"}.SlogLevel())
}
