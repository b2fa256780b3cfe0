package services

import (
	"strconv"
	"strings"
)

const (
	KeyUnits       = "units"
	KeyTenants     = "tenants"
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"

	tenantDraftKeyPrefix = "tenantData-"
	quarantineKeyPrefix  = "corrupt:"
)

func TenantDraftKey(unitID string) string {
	return tenantDraftKeyPrefix + unitID
}

func QuarantineKey(key string) string {
	return quarantineKeyPrefix + key
}

// quarantineSlotKey names the n-th quarantine slot of key. The first slot is
// QuarantineKey(key); later ones carry a "#n" suffix.
func quarantineSlotKey(key string, slot int) string {
	if slot <= 1 {
		return QuarantineKey(key)
	}
	return QuarantineKey(key) + "#" + strconv.Itoa(slot)
}

func IsQuarantineKey(key string) bool {
	return strings.HasPrefix(key, quarantineKeyPrefix)
}
