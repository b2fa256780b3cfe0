package models

import "strings"

const (
	DefaultRentPlan         = "1month"
	DefaultGraceDays        = "7"
	DefaultEmergencyContact = "Wife"
	DefaultEmergencyPhone   = "+255747822160"
)

type TransactionStatus string

const (
	TransactionPaid    TransactionStatus = "Paid"
	TransactionOverdue TransactionStatus = "Overdue"
)

// ParseTransactionStatus is case-insensitive; blank input means Paid.
func ParseTransactionStatus(raw string) (TransactionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "paid":
		return TransactionPaid, true
	case "overdue":
		return TransactionOverdue, true
	default:
		return "", false
	}
}

type Transaction struct {
	Date   string            `json:"date"`
	Status TransactionStatus `json:"status"`
	Amount Money             `json:"amount"`
}

type Tenant struct {
	ID               string        `json:"id"`
	UnitID           string        `json:"unitId,omitempty"`
	Name             string        `json:"name"`
	Phone            string        `json:"phone"`
	Rent             Money         `json:"rent"`
	StartDate        string        `json:"startDate"`
	RentPlan         string        `json:"rentPlan"`
	GracePeriod      GraceHours    `json:"gracePeriod"`
	EmergencyContact string        `json:"emergencyContact"`
	EmergencyPhone   string        `json:"emergencyPhone"`
	Transactions     []Transaction `json:"transactions"`
	Power            bool          `json:"power"`
}

// TenantInput carries raw tenant form values before validation.
type TenantInput struct {
	Name             string `json:"name" form:"name"`
	Phone            string `json:"phone" form:"phone"`
	Rent             string `json:"rent" form:"rent"`
	StartDate        string `json:"startDate" form:"startDate"`
	RentPlan         string `json:"rentPlan" form:"rentPlan"`
	GracePeriod      string `json:"gracePeriod" form:"gracePeriod"`
	EmergencyContact string `json:"emergencyContact" form:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone" form:"emergencyPhone"`
}

// TenantAssignment is the assign-tenant form for one unit. It doubles as the
// draft persisted under tenantData-<unitId> while the form is being filled.
type TenantAssignment struct {
	Tenant           string `json:"tenant" form:"tenant"`
	Mobile           string `json:"mobile" form:"mobile"`
	Rent             string `json:"rent" form:"rent"`
	StartDate        string `json:"startDate" form:"startDate"`
	LeaseDuration    string `json:"leaseDuration,omitempty" form:"leaseDuration"`
	RentPlan         string `json:"rentPlan,omitempty" form:"rentPlan"`
	GracePeriod      string `json:"gracePeriod,omitempty" form:"gracePeriod"`
	EmergencyContact string `json:"emergencyContact,omitempty" form:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty" form:"emergencyPhone"`
}

type TransactionInput struct {
	Date   string `json:"date" form:"date"`
	Status string `json:"status" form:"status"`
	Amount string `json:"amount" form:"amount"`
}
