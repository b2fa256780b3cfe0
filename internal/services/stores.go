package services

import "go.uber.org/zap"

// Stores wires the three record stores onto one key-value backend and one
// mutation queue.
type Stores struct {
	Units    *UnitStore
	Tenants  *TenantStore
	Sessions *SessionStore

	ledger *ledger
}

func NewStores(kv KeyValueStore, logger *zap.Logger) *Stores {
	shared := newLedger(kv, logger)
	return &Stores{
		Units:    &UnitStore{ledger: shared},
		Tenants:  &TenantStore{ledger: shared},
		Sessions: newSessionStore(shared),
		ledger:   shared,
	}
}

// ParseIssues lists stored values that failed to decode since start-up.
func (stores *Stores) ParseIssues() []StorageParseError {
	return stores.ledger.parseIssues()
}
