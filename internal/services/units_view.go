package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/tenanto/internal/models"
)

type UnitsOverview struct {
	Total    int           `json:"total"`
	Occupied int           `json:"occupied"`
	Empty    int           `json:"empty"`
	Query    string        `json:"query,omitempty"`
	Units    []models.Unit `json:"units"`
}

type UnitsViewService struct {
	units UnitReader
}

func NewUnitsViewService(units UnitReader) *UnitsViewService {
	return &UnitsViewService{units: units}
}

// Overview counts every unit and lists those whose tenant name contains
// query, ignoring case. Totals always cover the whole collection.
func (service *UnitsViewService) Overview(ctx context.Context, query string) (UnitsOverview, error) {
	units, err := service.units.ListUnits(ctx)
	if err != nil {
		return UnitsOverview{}, err
	}

	query = strings.TrimSpace(query)
	overview := UnitsOverview{
		Total: len(units),
		Query: query,
		Units: FilterUnitsByTenant(units, query),
	}
	for _, unit := range units {
		if unit.IsVacant() {
			overview.Empty++
		} else {
			overview.Occupied++
		}
	}
	return overview, nil
}

func FilterUnitsByTenant(units []models.Unit, query string) []models.Unit {
	needle := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]models.Unit, 0, len(units))
	for _, unit := range units {
		if needle == "" || strings.Contains(strings.ToLower(unit.Tenant), needle) {
			filtered = append(filtered, unit)
		}
	}
	return filtered
}
