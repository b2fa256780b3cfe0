package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/terraincognita07/tenanto/internal/models"
	"go.uber.org/zap"
)

var legacyTenantNamespace = uuid.MustParse("5b3f7d0e-8f0a-4c53-9d55-1f8e2a6c4b10")

type TenantStore struct {
	ledger *ledger
}

func (store *TenantStore) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return store.ledger.loadTenants(ctx)
}

func (store *TenantStore) FindTenant(ctx context.Context, tenantID string) (models.Tenant, error) {
	tenants, err := store.ledger.loadTenants(ctx)
	if err != nil {
		return models.Tenant{}, err
	}
	index := findTenantIndex(tenants, tenantID)
	if index < 0 {
		return models.Tenant{}, fmt.Errorf("%w: tenant %q", ErrNotFound, tenantID)
	}
	return tenants[index], nil
}

// AddTenant stores a tenant that is not linked to any unit.
func (store *TenantStore) AddTenant(ctx context.Context, input models.TenantInput) (models.Tenant, error) {
	missing := make([]string, 0, 4)
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", input.Name},
		{"phone", input.Phone},
		{"rent", input.Rent},
		{"startDate", input.StartDate},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return models.Tenant{}, missingFieldError(missing)
	}
	terms, err := validateLeaseTerms(input.Rent, input.StartDate, input.RentPlan, input.GracePeriod)
	if err != nil {
		return models.Tenant{}, err
	}

	tenant := models.Tenant{
		ID:               store.ledger.newID(),
		Name:             strings.TrimSpace(input.Name),
		Phone:            strings.TrimSpace(input.Phone),
		Rent:             terms.rent,
		StartDate:        terms.startDate,
		RentPlan:         terms.rentPlan,
		GracePeriod:      terms.grace,
		EmergencyContact: firstNonEmptyTrimmed(input.EmergencyContact, models.DefaultEmergencyContact),
		EmergencyPhone:   firstNonEmptyTrimmed(input.EmergencyPhone, models.DefaultEmergencyPhone),
		Transactions:     []models.Transaction{},
		Power:            true,
	}

	err = store.ledger.mutate(func() error {
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}
		return store.ledger.save(ctx, KeyTenants, append(tenants, tenant))
	})
	if err != nil {
		return models.Tenant{}, err
	}

	store.ledger.logger.Debug("tenant added", zap.String("tenant_id", tenant.ID))
	return tenant, nil
}

// DeleteTenant removes the tenant at index and vacates the unit it occupied.
func (store *TenantStore) DeleteTenant(ctx context.Context, index int, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	return store.ledger.mutate(func() error {
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(tenants) {
			return fmt.Errorf("%w: tenant %d", ErrOutOfRange, index)
		}
		removed := tenants[index]
		tenants = append(tenants[:index], tenants[index+1:]...)
		if err := store.ledger.save(ctx, KeyTenants, tenants); err != nil {
			return err
		}
		if removed.UnitID != "" {
			if err := store.ledger.vacateUnit(ctx, removed.UnitID, removed.ID); err != nil {
				return err
			}
		}
		store.ledger.logger.Info("tenant deleted", zap.String("tenant_id", removed.ID), zap.String("unit_id", removed.UnitID))
		return nil
	})
}

// TogglePower flips the supply of the tenant's unit, which owns the power
// state. Tenants without a unit keep their own flag.
func (store *TenantStore) TogglePower(ctx context.Context, index int) (models.Tenant, error) {
	var updated models.Tenant
	err := store.ledger.mutate(func() error {
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(tenants) {
			return fmt.Errorf("%w: tenant %d", ErrOutOfRange, index)
		}
		tenant := &tenants[index]

		if tenant.UnitID != "" {
			units, err := store.ledger.loadUnits(ctx)
			if err != nil {
				return err
			}
			unitIndex := findUnitIndex(units, tenant.UnitID)
			if unitIndex >= 0 && units[unitIndex].TenantID == tenant.ID {
				units[unitIndex].Power = !units[unitIndex].Power
				if err := store.ledger.save(ctx, KeyUnits, units); err != nil {
					return err
				}
				tenant.Power = units[unitIndex].Power
				updated = *tenant
				return store.ledger.save(ctx, KeyTenants, tenants)
			}
		}

		tenant.Power = !tenant.Power
		updated = *tenant
		return store.ledger.save(ctx, KeyTenants, tenants)
	})
	if err != nil {
		return models.Tenant{}, err
	}
	return updated, nil
}

func (store *TenantStore) AddTransaction(ctx context.Context, index int, input models.TransactionInput) (models.Tenant, error) {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(input.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(input.Amount) == "" {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return models.Tenant{}, missingFieldError(missing)
	}

	date, err := normalizeDate(input.Date)
	if err != nil {
		return models.Tenant{}, err
	}
	amount, err := models.ParseMoney(input.Amount)
	if err != nil {
		return models.Tenant{}, fmt.Errorf("%w: amount %q", ErrInvalidAmount, input.Amount)
	}
	status, ok := models.ParseTransactionStatus(input.Status)
	if !ok {
		return models.Tenant{}, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}

	var updated models.Tenant
	err = store.ledger.mutate(func() error {
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(tenants) {
			return fmt.Errorf("%w: tenant %d", ErrOutOfRange, index)
		}
		tenants[index].Transactions = append(tenants[index].Transactions, models.Transaction{
			Date:   date,
			Status: status,
			Amount: amount,
		})
		updated = tenants[index]
		return store.ledger.save(ctx, KeyTenants, tenants)
	})
	if err != nil {
		return models.Tenant{}, err
	}
	return updated, nil
}

func (store *TenantStore) DeleteTransaction(ctx context.Context, tenantIndex int, transactionIndex int) error {
	return store.ledger.mutate(func() error {
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}
		if tenantIndex < 0 || tenantIndex >= len(tenants) {
			return fmt.Errorf("%w: tenant %d", ErrOutOfRange, tenantIndex)
		}
		transactions := tenants[tenantIndex].Transactions
		if transactionIndex < 0 || transactionIndex >= len(transactions) {
			return fmt.Errorf("%w: transaction %d", ErrOutOfRange, transactionIndex)
		}
		tenants[tenantIndex].Transactions = append(transactions[:transactionIndex], transactions[transactionIndex+1:]...)
		return store.ledger.save(ctx, KeyTenants, tenants)
	})
}

// tenantRecord mirrors models.Tenant with pointers where an absent field has
// to be told apart from a zero value.
type tenantRecord struct {
	models.Tenant
	Transactions *[]models.Transaction `json:"transactions"`
	Power        *bool                 `json:"power"`
}

// loadTenants applies the read-time defaults older records rely on.
func (l *ledger) loadTenants(ctx context.Context) ([]models.Tenant, error) {
	records, err := loadCollection[tenantRecord](ctx, l, KeyTenants)
	if err != nil {
		return nil, err
	}

	tenants := make([]models.Tenant, 0, len(records))
	for index, record := range records {
		tenant := record.Tenant
		if strings.TrimSpace(tenant.EmergencyContact) == "" {
			tenant.EmergencyContact = models.DefaultEmergencyContact
		}
		if strings.TrimSpace(tenant.EmergencyPhone) == "" {
			tenant.EmergencyPhone = models.DefaultEmergencyPhone
		}
		tenant.Transactions = []models.Transaction{}
		if record.Transactions != nil && *record.Transactions != nil {
			tenant.Transactions = *record.Transactions
		}
		tenant.Power = true
		if record.Power != nil {
			tenant.Power = *record.Power
		}
		if strings.TrimSpace(tenant.RentPlan) == "" {
			tenant.RentPlan = models.DefaultRentPlan
		}
		if strings.TrimSpace(tenant.ID) == "" {
			tenant.ID = legacyTenantID(index, tenant)
		}
		l.warnUnreadableMoney(tenant)
		tenants = append(tenants, tenant)
	}
	return tenants, nil
}

func (l *ledger) warnUnreadableMoney(tenant models.Tenant) {
	if text, unreadable := tenant.Rent.Unreadable(); unreadable {
		l.logger.Warn("stored rent is not an amount, counting it as zero",
			zap.String("tenant_id", tenant.ID), zap.String("rent", text))
	}
	for index, transaction := range tenant.Transactions {
		if text, unreadable := transaction.Amount.Unreadable(); unreadable {
			l.logger.Warn("stored transaction amount is not an amount, counting it as zero",
				zap.String("tenant_id", tenant.ID), zap.Int("transaction", index), zap.String("amount", text))
		}
	}
}

// legacyTenantID gives records written before ids existed a stable id until
// the collection is next saved.
func legacyTenantID(index int, tenant models.Tenant) string {
	seed := fmt.Sprintf("%d|%s|%s|%s", index, tenant.Name, tenant.Phone, tenant.StartDate)
	return uuid.NewSHA1(legacyTenantNamespace, []byte(seed)).String()
}

// mirrorTenantPower copies unit power onto the linked tenant records. The
// tenants collection is only rewritten when something changed.
func (l *ledger) mirrorTenantPower(ctx context.Context, units []models.Unit) error {
	tenants, err := l.loadTenants(ctx)
	if err != nil {
		return err
	}
	powerByTenant := make(map[string]bool, len(units))
	for _, unit := range units {
		if unit.TenantID != "" {
			powerByTenant[unit.TenantID] = unit.Power
		}
	}

	changed := false
	for index := range tenants {
		power, linked := powerByTenant[tenants[index].ID]
		if linked && tenants[index].Power != power {
			tenants[index].Power = power
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return l.save(ctx, KeyTenants, tenants)
}

// detachTenant unlinks a tenant from a deleted unit, keeping its history.
func (l *ledger) detachTenant(ctx context.Context, tenantID string) error {
	tenants, err := l.loadTenants(ctx)
	if err != nil {
		return err
	}
	index := findTenantIndex(tenants, tenantID)
	if index < 0 {
		return nil
	}
	tenants[index].UnitID = ""
	return l.save(ctx, KeyTenants, tenants)
}

func findTenantIndex(tenants []models.Tenant, tenantID string) int {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return -1
	}
	for index, tenant := range tenants {
		if tenant.ID == tenantID {
			return index
		}
	}
	return -1
}

func firstNonEmptyTrimmed(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
