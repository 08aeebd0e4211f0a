package validation

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/localfeat/backend/internal/logger"
	"go.uber.org/zap"
)

// Check probes one optional dependency
type Check func(ctx context.Context) error

// ServiceValidator fails startup when a dependency marked as required is unreachable.
// A service is required when LOCALFEAT_REQUIRE_<NAME> is truthy.
type ServiceValidator struct {
	checks   map[string]Check
	required []string
}

// NewServiceValidator creates a validator over the given named checks
func NewServiceValidator(checks map[string]Check) *ServiceValidator {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return &ServiceValidator{
		checks:   checks,
		required: parseRequiredServices(names),
	}
}

// Required returns the names of services that must pass
func (sv *ServiceValidator) Required() []string {
	return sv.required
}

// ValidateServices runs every required check with a 10s timeout each
func (sv *ServiceValidator) ValidateServices(ctx context.Context) error {
	if len(sv.required) == 0 {
		logger.Log.Info("No required services configured for validation")
		return nil
	}

	logger.Log.Info("Validating required services", zap.Strings("services", sv.required))

	for _, name := range sv.required {
		check := sv.checks[name]

		timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := check(timeoutCtx)
		cancel()
		if err != nil {
			logger.Log.Error("Required service validation failed", zap.String("service", name), zap.Error(err))
			return fmt.Errorf("required service %q validation failed: %w", name, err)
		}

		logger.Log.Info("Service validated", zap.String("service", name))
	}

	return nil
}

func parseRequiredServices(names []string) []string {
	var required []string
	for _, name := range names {
		envVar := fmt.Sprintf("LOCALFEAT_REQUIRE_%s", strings.ToUpper(name))
		if isTruthy(os.Getenv(envVar)) {
			required = append(required, name)
		}
	}
	return required
}

func isTruthy(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}
