package models

import (
	"encoding/json"
	"strings"
)

// VacantTenant is the tenant name stored on a unit nobody occupies.
const VacantTenant = "Vacant"

type UnitStatus string

const (
	UnitStatusPaid        UnitStatus = "paid"
	UnitStatusOverdue     UnitStatus = "overdue"
	UnitStatusGracePeriod UnitStatus = "grace-period"
	UnitStatusVacant      UnitStatus = "vacant"
	UnitStatusPending     UnitStatus = "pending"
)

// NormalizeUnitStatus maps legacy labels such as "Grace Period" or "Paid" onto
// the canonical statuses. Unknown labels become pending.
func NormalizeUnitStatus(raw string) UnitStatus {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Join(strings.Fields(normalized), "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")

	switch UnitStatus(normalized) {
	case UnitStatusPaid, UnitStatusOverdue, UnitStatusGracePeriod, UnitStatusVacant, UnitStatusPending:
		return UnitStatus(normalized)
	case "grace":
		return UnitStatusGracePeriod
	default:
		return UnitStatusPending
	}
}

func (status *UnitStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*status = NormalizeUnitStatus(raw)
	return nil
}

type Unit struct {
	ID            string     `json:"id"`
	Tenant        string     `json:"tenant"`
	TenantID      string     `json:"tenantId,omitempty"`
	Status        UnitStatus `json:"status"`
	Grace         GraceHours `json:"grace"`
	Power         bool       `json:"power"`
	Rent          Money      `json:"rent,omitzero"`
	Phone         string     `json:"phone,omitempty"`
	StartDate     string     `json:"startDate,omitempty"`
	LeaseDuration string     `json:"leaseDuration,omitempty"`
}

func NewVacantUnit(id string) Unit {
	return Unit{
		ID:     id,
		Tenant: VacantTenant,
		Status: UnitStatusVacant,
	}
}

func (unit Unit) IsVacant() bool {
	return unit.Status == UnitStatusVacant
}

// Vacate drops every occupant field and switches the supply off.
func (unit *Unit) Vacate() {
	unit.Tenant = VacantTenant
	unit.TenantID = ""
	unit.Status = UnitStatusVacant
	unit.Grace = 0
	unit.Power = false
	unit.Rent = Money{}
	unit.Phone = ""
	unit.StartDate = ""
	unit.LeaseDuration = ""
}

// Normalize reconciles the tenant sentinel, status and power flag so that a
// unit is vacant exactly when it carries the sentinel, and vacant units are
// never powered.
func (unit *Unit) Normalize() {
	unit.ID = strings.TrimSpace(unit.ID)
	tenant := strings.TrimSpace(unit.Tenant)

	switch {
	case unit.Status == UnitStatusVacant:
		unit.Vacate()
	case tenant == "" || strings.EqualFold(tenant, VacantTenant):
		unit.Vacate()
	default:
		unit.Tenant = tenant
		if unit.Status == "" {
			unit.Status = UnitStatusPending
		}
	}
}
