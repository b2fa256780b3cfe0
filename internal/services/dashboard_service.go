package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/tenanto/internal/models"
)

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidWindow = errors.New("invalid window")
)

const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this-week"
	PeriodThisMonth = "this-month"
	PeriodThisYear  = "this-year"
	WindowNextWeek  = "next-week"

	paymentStatusPending = "pending"
)

type UnitReader interface {
	ListUnits(ctx context.Context) ([]models.Unit, error)
}

type TenantReader interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
}

type StatusCounts struct {
	Paid        int `json:"paid"`
	Overdue     int `json:"overdue"`
	GracePeriod int `json:"gracePeriod"`
	Vacant      int `json:"vacant"`
	Pending     int `json:"pending"`
}

type UpcomingPayment struct {
	TenantName string       `json:"tenantName"`
	UnitID     string       `json:"unitId,omitempty"`
	DueDate    string       `json:"dueDate"`
	Amount     models.Money `json:"amount"`
	Status     string       `json:"status"`
}

type PowerDevice struct {
	UnitID string `json:"unitId"`
	Tenant string `json:"tenant"`
	Power  bool   `json:"power"`
}

type DashboardOverview struct {
	Counts           StatusCounts      `json:"counts"`
	Period           string            `json:"period"`
	RentCollected    models.Money      `json:"rentCollected"`
	Window           string            `json:"window"`
	UpcomingPayments []UpcomingPayment `json:"upcomingPayments"`
	Devices          []PowerDevice     `json:"devices"`
}

type DashboardService struct {
	units    UnitReader
	tenants  TenantReader
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(units UnitReader, tenants TenantReader, location *time.Location) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		units:    units,
		tenants:  tenants,
		location: location,
		now:      time.Now,
	}
}

func (service *DashboardService) Overview(ctx context.Context, period string, window string) (DashboardOverview, error) {
	period = firstNonEmptyTrimmed(strings.ToLower(period), PeriodThisMonth)
	window = firstNonEmptyTrimmed(strings.ToLower(window), PeriodThisWeek)
	now := service.now().In(service.location)

	periodFrom, periodTo, err := PeriodRange(period, now)
	if err != nil {
		return DashboardOverview{}, err
	}
	windowFrom, windowTo, err := WindowRange(window, now)
	if err != nil {
		return DashboardOverview{}, err
	}

	units, err := service.units.ListUnits(ctx)
	if err != nil {
		return DashboardOverview{}, err
	}
	tenants, err := service.tenants.ListTenants(ctx)
	if err != nil {
		return DashboardOverview{}, err
	}

	devices := make([]PowerDevice, 0, len(units))
	for _, unit := range units {
		if unit.IsVacant() {
			continue
		}
		devices = append(devices, PowerDevice{UnitID: unit.ID, Tenant: unit.Tenant, Power: unit.Power})
	}

	return DashboardOverview{
		Counts:           CountUnitStatuses(units),
		Period:           period,
		RentCollected:    RentCollected(tenants, periodFrom, periodTo, service.location),
		Window:           window,
		UpcomingPayments: UpcomingPayments(tenants, windowFrom, windowTo, service.location),
		Devices:          devices,
	}, nil
}

func CountUnitStatuses(units []models.Unit) StatusCounts {
	counts := StatusCounts{}
	for _, unit := range units {
		switch unit.Status {
		case models.UnitStatusPaid:
			counts.Paid++
		case models.UnitStatusOverdue:
			counts.Overdue++
		case models.UnitStatusGracePeriod:
			counts.GracePeriod++
		case models.UnitStatusVacant:
			counts.Vacant++
		default:
			counts.Pending++
		}
	}
	return counts
}

// PeriodRange resolves a rent-collected period to [from, to). Weeks start on
// Monday.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	today := dayStart(now)
	switch period {
	case PeriodToday:
		return today, today.AddDate(0, 0, 1), nil
	case PeriodThisWeek:
		weekStart := startOfWeek(today)
		return weekStart, weekStart.AddDate(0, 0, 7), nil
	case PeriodThisMonth:
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	case PeriodThisYear:
		yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return yearStart, yearStart.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}

// WindowRange resolves an upcoming-payments window to [from, to).
func WindowRange(window string, now time.Time) (time.Time, time.Time, error) {
	today := dayStart(now)
	switch window {
	case PeriodThisWeek:
		weekStart := startOfWeek(today)
		return weekStart, weekStart.AddDate(0, 0, 7), nil
	case WindowNextWeek:
		nextWeek := startOfWeek(today).AddDate(0, 0, 7)
		return nextWeek, nextWeek.AddDate(0, 0, 7), nil
	case PeriodThisMonth:
		return PeriodRange(PeriodThisMonth, now)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWindow, window)
	}
}

// RentCollected sums paid transactions dated within [from, to).
func RentCollected(tenants []models.Tenant, from time.Time, to time.Time, location *time.Location) models.Money {
	total := models.Money{}
	for _, tenant := range tenants {
		for _, transaction := range tenant.Transactions {
			if transaction.Status != models.TransactionPaid {
				continue
			}
			date, err := time.ParseInLocation(dateLayout, transaction.Date, location)
			if err != nil || date.Before(from) || !date.Before(to) {
				continue
			}
			total = total.Add(transaction.Amount)
		}
	}
	return total
}

// UpcomingPayments lists rent due dates within [from, to), earliest first.
func UpcomingPayments(tenants []models.Tenant, from time.Time, to time.Time, location *time.Location) []UpcomingPayment {
	payments := make([]UpcomingPayment, 0)
	for _, tenant := range tenants {
		start, err := time.ParseInLocation(dateLayout, tenant.StartDate, location)
		if err != nil {
			continue
		}
		months, err := ParseRentPlan(tenant.RentPlan)
		if err != nil {
			continue
		}
		for _, due := range DueDatesBetween(start, months, from, to) {
			payments = append(payments, UpcomingPayment{
				TenantName: tenant.Name,
				UnitID:     tenant.UnitID,
				DueDate:    due.Format(dateLayout),
				Amount:     tenant.Rent,
				Status:     paymentStatusPending,
			})
		}
	}

	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].DueDate == payments[j].DueDate {
			return payments[i].TenantName < payments[j].TenantName
		}
		return payments[i].DueDate < payments[j].DueDate
	})
	return payments
}

func dayStart(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, value.Location())
}

func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
