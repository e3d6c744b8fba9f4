package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the product index exists.
type IndexChecker interface {
	Exists(ctx context.Context) (bool, error)
}

// PredictorChecker checks entity extractor availability.
type PredictorChecker interface {
	HealthCheck(ctx context.Context) error
}
