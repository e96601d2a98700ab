package clip

// OperationState is the lifecycle position of a long-running operation.
type OperationState int

const (
	// StatePolling means the job was accepted and is still running.
	StatePolling OperationState = iota
	// StateSucceeded means the job finished with output.
	StateSucceeded
	// StateFailed means the job finished with an error.
	StateFailed
)

func (s OperationState) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Media references a generated asset.
type Media struct {
	// URL is either a downloadable URI or a data URI.
	URL string `json:"url"`

	// ContentType is the MIME type, if the provider reported one.
	ContentType string `json:"content_type,omitempty"`
}

// Part is one element of an operation's output content.
type Part struct {
	Text  string `json:"text,omitempty"`
	Media *Media `json:"media,omitempty"`
}

// OperationError is the provider's failure report for a finished job.
type OperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *OperationError) Error() string {
	return e.Message
}

// OperationOutput holds the content produced by a successful job.
type OperationOutput struct {
	Content []Part `json:"content"`
}

// Operation is a handle to a server-side job whose completion is discovered
// by polling.
type Operation struct {
	Name   string           `json:"name"`
	Done   bool             `json:"done"`
	Error  *OperationError  `json:"error,omitempty"`
	Output *OperationOutput `json:"output,omitempty"`

	// Raw is the provider's own handle, passed back on Check.
	Raw any `json:"-"`
}

// State reports where the operation is in its lifecycle.
func (op *Operation) State() OperationState {
	switch {
	case !op.Done:
		return StatePolling
	case op.Error != nil:
		return StateFailed
	default:
		return StateSucceeded
	}
}

// FirstMedia returns the first output part carrying media, or nil.
func (op *Operation) FirstMedia() *Media {
	if op.Output == nil {
		return nil
	}
	for i := range op.Output.Content {
		if m := op.Output.Content[i].Media; m != nil && m.URL != "" {
			return m
		}
	}
	return nil
}
