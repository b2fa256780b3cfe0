package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/tenanto/internal/models"
	"go.uber.org/zap"
)

const (
	defaultSeedUnitCount = 12
	defaultSeedPrefix    = "G"
	dateLayout           = "2006-01-02"
)

type UnitStore struct {
	ledger *ledger
}

func (store *UnitStore) ListUnits(ctx context.Context) ([]models.Unit, error) {
	return store.ledger.loadUnits(ctx)
}

func (store *UnitStore) FindUnit(ctx context.Context, unitID string) (models.Unit, error) {
	units, err := store.ledger.loadUnits(ctx)
	if err != nil {
		return models.Unit{}, err
	}
	index := findUnitIndex(units, unitID)
	if index < 0 {
		return models.Unit{}, fmt.Errorf("%w: unit %q", ErrNotFound, unitID)
	}
	return units[index], nil
}

func (store *UnitStore) AddUnit(ctx context.Context, name string) (models.Unit, error) {
	unitID := strings.TrimSpace(name)
	if unitID == "" {
		return models.Unit{}, ErrEmptyName
	}

	unit := models.NewVacantUnit(unitID)
	err := store.ledger.mutate(func() error {
		units, err := store.ledger.loadUnits(ctx)
		if err != nil {
			return err
		}
		for _, existing := range units {
			if strings.EqualFold(existing.ID, unitID) {
				return fmt.Errorf("%w: %q", ErrDuplicateUnit, unitID)
			}
		}
		return store.ledger.save(ctx, KeyUnits, append(units, unit))
	})
	if err != nil {
		return models.Unit{}, err
	}

	store.ledger.logger.Debug("unit added", zap.String("unit_id", unitID))
	return unit, nil
}

func (store *UnitStore) ToggleUnitPower(ctx context.Context, unitID string) (models.Unit, error) {
	var updated models.Unit
	err := store.ledger.mutate(func() error {
		units, err := store.ledger.loadUnits(ctx)
		if err != nil {
			return err
		}
		index := findUnitIndex(units, unitID)
		if index < 0 {
			return fmt.Errorf("%w: unit %q", ErrNotFound, unitID)
		}
		if units[index].IsVacant() && !units[index].Power {
			return fmt.Errorf("%w: %q", ErrUnitVacant, unitID)
		}

		units[index].Power = !units[index].Power
		if err := store.ledger.save(ctx, KeyUnits, units); err != nil {
			return err
		}
		updated = units[index]
		return store.ledger.mirrorTenantPower(ctx, units)
	})
	if err != nil {
		return models.Unit{}, err
	}

	store.ledger.logger.Debug("unit power toggled", zap.String("unit_id", unitID), zap.Bool("power", updated.Power))
	return updated, nil
}

func (store *UnitStore) DeleteUnit(ctx context.Context, unitID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	return store.ledger.mutate(func() error {
		units, err := store.ledger.loadUnits(ctx)
		if err != nil {
			return err
		}
		index := findUnitIndex(units, unitID)
		if index < 0 {
			return fmt.Errorf("%w: unit %q", ErrNotFound, unitID)
		}
		removed := units[index]
		units = append(units[:index], units[index+1:]...)
		if err := store.ledger.save(ctx, KeyUnits, units); err != nil {
			return err
		}

		if removed.TenantID != "" {
			if err := store.ledger.detachTenant(ctx, removed.TenantID); err != nil {
				return err
			}
		}
		if err := store.ledger.remove(ctx, TenantDraftKey(removed.ID)); err != nil {
			return err
		}
		store.ledger.logger.Info("unit deleted", zap.String("unit_id", removed.ID))
		return nil
	})
}

// AssignTenantToUnit records the occupant of a unit. Re-submitting the same
// form for the same unit updates the existing tenant record in place.
func (store *UnitStore) AssignTenantToUnit(ctx context.Context, unitID string, input models.TenantAssignment) (models.Unit, error) {
	assignment, err := validateAssignment(input)
	if err != nil {
		return models.Unit{}, err
	}

	var updated models.Unit
	err = store.ledger.mutate(func() error {
		units, err := store.ledger.loadUnits(ctx)
		if err != nil {
			return err
		}
		index := findUnitIndex(units, unitID)
		if index < 0 {
			return fmt.Errorf("%w: unit %q", ErrNotFound, unitID)
		}
		tenants, err := store.ledger.loadTenants(ctx)
		if err != nil {
			return err
		}

		unit := &units[index]
		tenantIndex := findTenantIndex(tenants, unit.TenantID)
		if tenantIndex >= 0 && tenants[tenantIndex].Name != assignment.Name {
			tenants[tenantIndex].UnitID = ""
			tenantIndex = -1
		}
		if tenantIndex < 0 {
			tenants = append(tenants, models.Tenant{
				ID:               store.ledger.newID(),
				EmergencyContact: models.DefaultEmergencyContact,
				EmergencyPhone:   models.DefaultEmergencyPhone,
				Transactions:     []models.Transaction{},
			})
			tenantIndex = len(tenants) - 1
		}
		tenant := &tenants[tenantIndex]
		assignment.applyTo(tenant)
		tenant.UnitID = unit.ID
		tenant.Power = true

		unit.Tenant = tenant.Name
		unit.TenantID = tenant.ID
		unit.Status = models.UnitStatusPaid
		unit.Power = true
		unit.Grace = tenant.GracePeriod
		unit.Rent = tenant.Rent
		unit.Phone = tenant.Phone
		unit.StartDate = tenant.StartDate
		unit.LeaseDuration = assignment.LeaseDuration

		if err := store.ledger.save(ctx, KeyTenants, tenants); err != nil {
			return err
		}
		if err := store.ledger.save(ctx, KeyUnits, units); err != nil {
			return err
		}
		updated = *unit
		return store.ledger.remove(ctx, TenantDraftKey(unit.ID))
	})
	if err != nil {
		return models.Unit{}, err
	}

	store.ledger.logger.Info("tenant assigned", zap.String("unit_id", updated.ID), zap.String("tenant_id", updated.TenantID))
	return updated, nil
}

// BulkSetPower switches every unit in a single write. Vacant units always
// stay off.
func (store *UnitStore) BulkSetPower(ctx context.Context, on bool) ([]models.Unit, error) {
	var updated []models.Unit
	err := store.ledger.mutate(func() error {
		units, err := store.ledger.loadUnits(ctx)
		if err != nil {
			return err
		}
		for index := range units {
			units[index].Power = on && !units[index].IsVacant()
		}
		if err := store.ledger.save(ctx, KeyUnits, units); err != nil {
			return err
		}
		updated = units
		return store.ledger.mirrorTenantPower(ctx, units)
	})
	if err != nil {
		return nil, err
	}

	store.ledger.logger.Info("bulk power switch", zap.Bool("on", on), zap.Int("units", len(updated)))
	return updated, nil
}

// SeedDefaults stores twelve vacant units G1..G12 when no units exist yet.
// A corrupt collection is left alone so it can still be recovered.
func (store *UnitStore) SeedDefaults(ctx context.Context) ([]models.Unit, bool, error) {
	var units []models.Unit
	seeded := false
	err := store.ledger.mutate(func() error {
		raw, found, err := store.ledger.kv.Get(ctx, KeyUnits)
		if err != nil {
			return fmt.Errorf("load %s: %w", KeyUnits, err)
		}
		trimmed := strings.TrimSpace(raw)
		if found && trimmed != "" && trimmed != "[]" && trimmed != "null" {
			units, err = store.ledger.loadUnits(ctx)
			return err
		}

		units = make([]models.Unit, 0, defaultSeedUnitCount)
		for number := 1; number <= defaultSeedUnitCount; number++ {
			units = append(units, models.NewVacantUnit(fmt.Sprintf("%s%d", defaultSeedPrefix, number)))
		}
		seeded = true
		return store.ledger.save(ctx, KeyUnits, units)
	})
	if err != nil {
		return nil, false, err
	}
	if seeded {
		store.ledger.logger.Info("seeded default units", zap.Int("count", len(units)))
	}
	return units, seeded, nil
}

func (store *UnitStore) SaveAssignmentDraft(ctx context.Context, unitID string, draft models.TenantAssignment) error {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return ErrEmptyName
	}
	return store.ledger.save(ctx, TenantDraftKey(unitID), draft)
}

func (store *UnitStore) AssignmentDraft(ctx context.Context, unitID string) (models.TenantAssignment, bool, error) {
	return loadRecord[models.TenantAssignment](ctx, store.ledger, TenantDraftKey(strings.TrimSpace(unitID)))
}

func (store *UnitStore) ClearAssignmentDraft(ctx context.Context, unitID string) error {
	return store.ledger.remove(ctx, TenantDraftKey(strings.TrimSpace(unitID)))
}

func (l *ledger) loadUnits(ctx context.Context) ([]models.Unit, error) {
	units, err := loadCollection[models.Unit](ctx, l, KeyUnits)
	if err != nil {
		return nil, err
	}
	for index := range units {
		units[index].Normalize()
	}
	return units, nil
}

// vacateUnit clears the unit a removed tenant occupied.
func (l *ledger) vacateUnit(ctx context.Context, unitID string, tenantID string) error {
	units, err := l.loadUnits(ctx)
	if err != nil {
		return err
	}
	index := findUnitIndex(units, unitID)
	if index < 0 || units[index].TenantID != tenantID {
		return nil
	}
	units[index].Vacate()
	return l.save(ctx, KeyUnits, units)
}

func findUnitIndex(units []models.Unit, unitID string) int {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return -1
	}
	for index, unit := range units {
		if unit.ID == unitID {
			return index
		}
	}
	return -1
}

type validatedAssignment struct {
	Name             string
	Phone            string
	Rent             models.Money
	StartDate        string
	RentPlan         string
	GracePeriod      models.GraceHours
	LeaseDuration    string
	EmergencyContact string
	EmergencyPhone   string
}

func validateAssignment(input models.TenantAssignment) (validatedAssignment, error) {
	missing := make([]string, 0, 4)
	for _, field := range []struct {
		name  string
		value string
	}{
		{"tenant", input.Tenant},
		{"mobile", input.Mobile},
		{"rent", input.Rent},
		{"startDate", input.StartDate},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return validatedAssignment{}, missingFieldError(missing)
	}

	terms, err := validateLeaseTerms(input.Rent, input.StartDate, input.RentPlan, input.GracePeriod)
	if err != nil {
		return validatedAssignment{}, err
	}

	leaseDuration := strings.TrimSpace(input.LeaseDuration)
	if leaseDuration == "" {
		leaseDuration = terms.rentPlan
	}
	return validatedAssignment{
		Name:             strings.TrimSpace(input.Tenant),
		Phone:            strings.TrimSpace(input.Mobile),
		Rent:             terms.rent,
		StartDate:        terms.startDate,
		RentPlan:         terms.rentPlan,
		GracePeriod:      terms.grace,
		LeaseDuration:    leaseDuration,
		EmergencyContact: strings.TrimSpace(input.EmergencyContact),
		EmergencyPhone:   strings.TrimSpace(input.EmergencyPhone),
	}, nil
}

func (assignment validatedAssignment) applyTo(tenant *models.Tenant) {
	tenant.Name = assignment.Name
	tenant.Phone = assignment.Phone
	tenant.Rent = assignment.Rent
	tenant.StartDate = assignment.StartDate
	tenant.RentPlan = assignment.RentPlan
	tenant.GracePeriod = assignment.GracePeriod
	if assignment.EmergencyContact != "" {
		tenant.EmergencyContact = assignment.EmergencyContact
	}
	if assignment.EmergencyPhone != "" {
		tenant.EmergencyPhone = assignment.EmergencyPhone
	}
}

type leaseTerms struct {
	rent      models.Money
	startDate string
	rentPlan  string
	grace     models.GraceHours
}

func validateLeaseTerms(rawRent string, rawStart string, rawPlan string, rawGrace string) (leaseTerms, error) {
	rent, err := models.ParseMoney(rawRent)
	if err != nil {
		return leaseTerms{}, fmt.Errorf("%w: rent %q", ErrInvalidAmount, rawRent)
	}
	startDate, err := normalizeDate(rawStart)
	if err != nil {
		return leaseTerms{}, err
	}

	plan := strings.TrimSpace(rawPlan)
	if plan == "" {
		plan = models.DefaultRentPlan
	}
	if _, err := ParseRentPlan(plan); err != nil {
		return leaseTerms{}, err
	}

	graceRaw := strings.TrimSpace(rawGrace)
	if graceRaw == "" {
		graceRaw = models.DefaultGraceDays
	}
	grace, err := models.ParseGrace(graceRaw)
	if err != nil {
		return leaseTerms{}, fmt.Errorf("%w: %q", ErrInvalidGracePeriod, rawGrace)
	}

	return leaseTerms{rent: rent, startDate: startDate, rentPlan: plan, grace: grace}, nil
}

func normalizeDate(raw string) (string, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return parsed.Format(dateLayout), nil
}
