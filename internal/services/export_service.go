package services

import (
	"context"
	"sort"

	"github.com/terraincognita07/tenanto/internal/models"
)

var ExportCSVHeaders = []string{
	"Unit",
	"Tenant",
	"Date",
	"Status",
	"Amount",
}

type ExportService struct {
	tenants TenantReader
}

type ExportSummary struct {
	TotalEntries int          `json:"totalEntries"`
	HasData      bool         `json:"hasData"`
	DateFrom     string       `json:"dateFrom,omitempty"`
	DateTo       string       `json:"dateTo,omitempty"`
	TotalPaid    models.Money `json:"totalPaid"`
	TotalOverdue models.Money `json:"totalOverdue"`
}

type ExportEntry struct {
	Unit   string                   `json:"unit"`
	Tenant string                   `json:"tenant"`
	Date   string                   `json:"date"`
	Status models.TransactionStatus `json:"status"`
	Amount models.Money             `json:"amount"`
}

func NewExportService(tenants TenantReader) *ExportService {
	return &ExportService{tenants: tenants}
}

// BuildEntries flattens the tenants' transactions that fall inside
// exportRange, ordered by date and then by tenant order.
func (service *ExportService) BuildEntries(ctx context.Context, exportRange ExportRange) ([]ExportEntry, error) {
	tenants, err := service.tenants.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ExportEntry, 0)
	for _, tenant := range tenants {
		for _, transaction := range tenant.Transactions {
			if !exportRange.Contains(transaction.Date) {
				continue
			}
			entries = append(entries, ExportEntry{
				Unit:   tenant.UnitID,
				Tenant: tenant.Name,
				Date:   transaction.Date,
				Status: transaction.Status,
				Amount: transaction.Amount,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

func (service *ExportService) BuildSummary(ctx context.Context, exportRange ExportRange) (ExportSummary, error) {
	entries, err := service.BuildEntries(ctx, exportRange)
	if err != nil {
		return ExportSummary{}, err
	}
	return SummarizeEntries(entries), nil
}

func SummarizeEntries(entries []ExportEntry) ExportSummary {
	summary := ExportSummary{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return summary
	}

	summary.HasData = true
	summary.DateFrom = entries[0].Date
	summary.DateTo = entries[0].Date
	for _, entry := range entries {
		if entry.Date < summary.DateFrom {
			summary.DateFrom = entry.Date
		}
		if entry.Date > summary.DateTo {
			summary.DateTo = entry.Date
		}
		switch entry.Status {
		case models.TransactionPaid:
			summary.TotalPaid = summary.TotalPaid.Add(entry.Amount)
		case models.TransactionOverdue:
			summary.TotalOverdue = summary.TotalOverdue.Add(entry.Amount)
		}
	}
	return summary
}

func (entry ExportEntry) Columns() []string {
	return []string{
		entry.Unit,
		entry.Tenant,
		entry.Date,
		string(entry.Status),
		entry.Amount.String(),
	}
}
