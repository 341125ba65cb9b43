package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/codeWhizperer/TBA/events"
	"github.com/codeWhizperer/TBA/exception"
	"github.com/codeWhizperer/TBA/jsonx"
	"github.com/codeWhizperer/TBA/logx"
)

const createEventsTable = `
CREATE TABLE IF NOT EXISTS account_events (
	id         BIGSERIAL PRIMARY KEY,
	event_type TEXT        NOT NULL,
	account    TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	emitted_at TIMESTAMPTZ NOT NULL
)`

// PGEventArchive subscribes to the event bus and appends every lifecycle
// event to a Postgres table. Optional: the node runs without it when no DSN
// is configured.
type PGEventArchive struct {
	db           *sql.DB
	subscriberID events.SubscriberID
}

func NewPGEventArchive(dsn string) (*PGEventArchive, error) {
	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open event archive db: %w", err)
	}
	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach event archive db: %w", err)
	}
	if _, err := database.Exec(createEventsTable); err != nil {
		return nil, fmt.Errorf("failed to ensure event archive schema: %w", err)
	}
	return &PGEventArchive{db: database}, nil
}

// Start subscribes to the bus and archives events until Stop
func (a *PGEventArchive) Start(bus *events.EventBus) {
	id, ch := bus.Subscribe()
	a.subscriberID = id

	exception.SafeGo("PG_EVENT_ARCHIVE", func() {
		for event := range ch {
			if err := a.insert(event); err != nil {
				logx.Error("PG_EVENT_ARCHIVE", "failed to archive event: ", err)
			}
		}
	})
}

// Stop unsubscribes from the bus and closes the db connection
func (a *PGEventArchive) Stop(bus *events.EventBus) {
	if a.subscriberID != "" {
		bus.Unsubscribe(a.subscriberID)
	}
	if err := a.db.Close(); err != nil {
		logx.Error("PG_EVENT_ARCHIVE", "failed to close event archive db: ", err)
	}
}

func (a *PGEventArchive) insert(event events.AccountEvent) error {
	payload, err := jsonx.Marshal(payloadFor(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	_, err = a.db.Exec(
		`INSERT INTO account_events (event_type, account, payload, emitted_at) VALUES ($1, $2, $3, $4)`,
		string(event.Type()), string(event.Account()), payload, event.Timestamp(),
	)
	return err
}

func payloadFor(event events.AccountEvent) map[string]interface{} {
	payload := map[string]interface{}{
		"account": event.Account(),
	}
	switch e := event.(type) {
	case *events.AccountCreated:
		payload["owner"] = e.Owner()
	case *events.TransactionExecuted:
		payload["tx_hash"] = e.TxHash()
		payload["responses"] = e.Responses()
	case *events.AccountUpgraded:
		payload["implementation"] = e.Implementation()
	case *events.AccountLocked:
		payload["locked_at"] = e.LockedAt()
		payload["duration"] = e.Duration()
	}
	return payload
}
