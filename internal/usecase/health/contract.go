package health

import "context"

// DatasetPinger checks dataset file availability.
type DatasetPinger interface {
	Ping(ctx context.Context) error
}
