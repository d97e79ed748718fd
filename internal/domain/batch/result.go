// Package batch describes per-item outcomes of bulk catalog operations.
package batch

// ItemStatus is the processing outcome of a single import item.
type ItemStatus string

// Item status values.
const (
	StatusCreated ItemStatus = "created"
	StatusUpdated ItemStatus = "updated"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of processing one item in a bulk operation.
type Result struct {
	index  int
	id     string
	status ItemStatus
	err    error
}

// NewWritten creates a successful result; created distinguishes inserts from replacements.
func NewWritten(index int, id string, created bool) Result {
	status := StatusUpdated
	if created {
		status = StatusCreated
	}
	return Result{index: index, id: id, status: status}
}

// NewError creates a failed result. id may be empty when the item had none.
func NewError(index int, id string, err error) Result {
	return Result{index: index, id: id, status: StatusError, err: err}
}

// Index returns the zero-based position of the item in its input.
func (r Result) Index() int { return r.index }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary tallies a set of results.
type Summary struct {
	Created int
	Updated int
	Failed  int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusCreated:
			s.Created++
		case StatusUpdated:
			s.Updated++
		case StatusError:
			s.Failed++
		}
	}
	return s
}
