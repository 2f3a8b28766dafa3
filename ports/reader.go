package ports

import (
	"context"

	"fieldprof/domain/dataset"
)

// RowReader is the dataset-acquisition collaborator. Implementations read
// up to maxRows rows (<=0 means all) from a source and return a uniform
// schema table. Errors short-circuit profiling.
type RowReader interface {
	ReadRows(ctx context.Context, source string, maxRows int) (*dataset.Table, error)
}
