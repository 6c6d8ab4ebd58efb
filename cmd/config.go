package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/pkg/errs"
)

const (
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"

	OrchestratorRestate = "restate"
	OrchestratorLocal   = "local"
)

type Config struct {
	HTTPPort               string
	LogLevel               string
	LedgerDriver           string
	DBURL                  string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	OrchestratorDriver     string
	RestateIngressURL      string
	CallbackTTL            time.Duration
	SettlementSchedule     string
	SettlementGrace        time.Duration
	ExpirySchedule         string
	KafkaHost              string
	KafkaOrderChangedTopic string
	OtelEndpoint           string
	ServiceName            string
	AuthStaticTokens       string
}

// Validate reports every setting that cannot work, joined.
func (c Config) Validate() error {
	var problems []error
	switch c.LedgerDriver {
	case LedgerMemory:
	case LedgerPostgres:
		if c.DBURL == "" && c.DBHost == "" {
			problems = append(problems, errs.NewValueIsRequiredError("DB_URL or DB_HOST"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("LEDGER_DRIVER",
			fmt.Errorf("%q is not %s or %s", c.LedgerDriver, LedgerPostgres, LedgerMemory)))
	}

	switch c.OrchestratorDriver {
	case OrchestratorLocal:
	case OrchestratorRestate:
		if c.RestateIngressURL == "" {
			problems = append(problems, errs.NewValueIsRequiredError("RESTATE_INGRESS_URL"))
		}
		if c.LedgerDriver == LedgerMemory {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("ORCHESTRATOR_DRIVER",
				errors.New("restate needs the postgres ledger to outlive the process")))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("ORCHESTRATOR_DRIVER",
			fmt.Errorf("%q is not %s or %s", c.OrchestratorDriver, OrchestratorRestate, OrchestratorLocal)))
	}

	if c.CallbackTTL <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("CALLBACK_TTL", c.CallbackTTL, "1s", "unbounded"))
	}
	if c.SettlementGrace < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("SETTLEMENT_GRACE", c.SettlementGrace, 0, "unbounded"))
	}
	if (c.KafkaHost == "") != (c.KafkaOrderChangedTopic == "") {
		problems = append(problems, errs.NewValueIsRequiredError("KAFKA_HOST and KAFKA_ORDER_CHANGED_TOPIC together"))
	}
	return errors.Join(problems...)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// SlogLevel maps LOG_LEVEL to a slog level; anything unknown is info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
