package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates the product index has not been created.
	CheckMissing CheckResult = "missing"
)

// Check names.
const (
	CheckDatabase  = "database"
	CheckIndex     = "index"
	CheckPredictor = "predictor"
)

const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	index     IndexChecker
	predictor PredictorChecker
}

// New creates a Service. index and predictor can be nil.
func New(db DBPinger, index IndexChecker, predictor PredictorChecker) *Service {
	return &Service{db: db, index: index, predictor: predictor}
}

// Alive reports whether the document store answers a ping.
func (s *Service) Alive(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return s.db.Ping(ctx) == nil
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	if !s.Alive(ctx) {
		checks[CheckDatabase] = CheckError
	} else {
		checks[CheckDatabase] = CheckOK
		if s.index != nil {
			checks[CheckIndex] = s.checkIndex(ctx)
		}
	}

	if s.predictor != nil {
		pctx, cancel := context.WithTimeout(ctx, checkTimeout)
		if err := s.predictor.HealthCheck(pctx); err != nil {
			checks[CheckPredictor] = CheckError
		} else {
			checks[CheckPredictor] = CheckOK
		}
		cancel()
	}

	return Report{Status: aggregate(checks), Checks: checks}
}

func (s *Service) checkIndex(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	exists, err := s.index.Exists(ctx)
	switch {
	case err != nil:
		return CheckError
	case !exists:
		return CheckMissing
	default:
		return CheckOK
	}
}

func aggregate(checks map[string]CheckResult) Status {
	if checks[CheckDatabase] == CheckError {
		return Unhealthy
	}
	for _, v := range checks {
		if v != CheckOK {
			return Degraded
		}
	}
	return Healthy
}
