package services

import (
	"context"
	"math"
	"time"

	"github.com/terraincognita07/tenanto/internal/models"
)

type TenantDetail struct {
	Index           int           `json:"index"`
	Tenant          models.Tenant `json:"tenant"`
	Unit            *models.Unit  `json:"unit,omitempty"`
	CurrentDueDate  string        `json:"currentDueDate,omitempty"`
	NextDueDate     string        `json:"nextDueDate,omitempty"`
	GraceRemaining  int64         `json:"graceRemainingHours"`
	GraceDaysLeft   int           `json:"graceDaysLeft"`
	Power           bool          `json:"power"`
	PaidTotal       models.Money  `json:"paidTotal"`
	OverdueTotal    models.Money  `json:"overdueTotal"`
	TransactionRows int           `json:"transactionRows"`
}

type TenantDetailsService struct {
	units    UnitReader
	tenants  TenantReader
	location *time.Location
	now      func() time.Time
}

func NewTenantDetailsService(units UnitReader, tenants TenantReader, location *time.Location) *TenantDetailsService {
	if location == nil {
		location = time.UTC
	}
	return &TenantDetailsService{
		units:    units,
		tenants:  tenants,
		location: location,
		now:      time.Now,
	}
}

// Details lists every tenant in stored order so Index matches the positional
// tenant operations.
func (service *TenantDetailsService) Details(ctx context.Context) ([]TenantDetail, error) {
	units, err := service.units.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := service.tenants.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	now := service.now().In(service.location)
	details := make([]TenantDetail, 0, len(tenants))
	for index, tenant := range tenants {
		details = append(details, BuildTenantDetail(index, tenant, units, now))
	}
	return details, nil
}

func BuildTenantDetail(index int, tenant models.Tenant, units []models.Unit, now time.Time) TenantDetail {
	detail := TenantDetail{
		Index:           index,
		Tenant:          tenant,
		Power:           tenant.Power,
		TransactionRows: len(tenant.Transactions),
	}

	if unitIndex := findUnitIndex(units, tenant.UnitID); unitIndex >= 0 && units[unitIndex].TenantID == tenant.ID {
		unit := units[unitIndex]
		detail.Unit = &unit
		detail.Power = unit.Power
	}

	for _, transaction := range tenant.Transactions {
		switch transaction.Status {
		case models.TransactionPaid:
			detail.PaidTotal = detail.PaidTotal.Add(transaction.Amount)
		case models.TransactionOverdue:
			detail.OverdueTotal = detail.OverdueTotal.Add(transaction.Amount)
		}
	}

	start, err := time.ParseInLocation(dateLayout, tenant.StartDate, now.Location())
	if err != nil {
		return detail
	}
	months, err := ParseRentPlan(tenant.RentPlan)
	if err != nil {
		return detail
	}

	currentDue := CurrentDueDate(start, months, now)
	detail.CurrentDueDate = currentDue.Format(dateLayout)
	detail.NextDueDate = NextDueDate(start, months, now).Format(dateLayout)

	remaining := GraceRemaining(tenant.GracePeriod.Duration(), currentDue, now)
	detail.GraceRemaining = int64(remaining / time.Hour)
	detail.GraceDaysLeft = int(math.Ceil(remaining.Hours() / 24))
	return detail
}
