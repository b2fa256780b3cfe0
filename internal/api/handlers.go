package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/tenanto/internal/i18n"
	"github.com/terraincognita07/tenanto/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	stores        *services.Stores
	dashboard     *services.DashboardService
	unitsView     *services.UnitsViewService
	tenantDetails *services.TenantDetailsService
	exports       *services.ExportService

	i18n         *i18n.Manager
	logger       *zap.Logger
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	loginLimiter *attemptLimiter
	now          func() time.Time
}

func NewHandler(stores *services.Stores, secret string, location *time.Location, i18nManager *i18n.Manager, cookieSecure bool, logger *zap.Logger) (*Handler, error) {
	if stores == nil {
		return nil, errors.New("stores are required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		stores:        stores,
		dashboard:     services.NewDashboardService(stores.Units, stores.Tenants, location),
		unitsView:     services.NewUnitsViewService(stores.Units),
		tenantDetails: services.NewTenantDetailsService(stores.Units, stores.Tenants, location),
		exports:       services.NewExportService(stores.Tenants),
		i18n:          i18nManager,
		logger:        logger.Named("api"),
		secretKey:     []byte(secret),
		location:      location,
		cookieSecure:  cookieSecure,
		loginLimiter:  newAttemptLimiter(),
		now:           time.Now,
	}, nil
}
