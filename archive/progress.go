package archive

// ProgressEvent reports progress during an archiving run.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCaptured
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)
