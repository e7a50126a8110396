package fetcher

// Status is the outcome of a fetch as seen by the pipeline.
type Status int

const (
	StatusSuccess Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RawDocument is the visible text extracted from one fetched page. Only a
// StatusSuccess document carries text.
type RawDocument struct {
	URL        string
	Text       string
	Status     Status
	StatusCode int
	Attempts   int
	Encoding   string
}

// Empty reports whether the document carries no text.
func (d RawDocument) Empty() bool {
	return d.Text == ""
}
