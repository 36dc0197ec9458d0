package edit

import "errors"

var (
	// ErrUploadFailed reports that the processing service rejected or failed an upload.
	ErrUploadFailed = errors.New("upload failed")

	// ErrProcessingFailed reports a failed adjustment/filter recompute.
	ErrProcessingFailed = errors.New("processing failed")

	// ErrTransformFailed reports a failed rotate, flip or crop.
	ErrTransformFailed = errors.New("transform failed")

	// ErrHistoryEmpty reports an undo or redo with nowhere to go.
	ErrHistoryEmpty = errors.New("history empty")

	// ErrNoActiveImage reports an operation attempted before any upload.
	ErrNoActiveImage = errors.New("no active image")

	// ErrInvalidParameter reports an out-of-range or unknown parameter.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownFilter reports a filter name outside the supported set.
	ErrUnknownFilter = errors.New("unknown filter")
)

// IsNoop reports whether err is one of the expected conditions that simply
// turn the requested operation into a no-op.
func IsNoop(err error) bool {
	return errors.Is(err, ErrHistoryEmpty) || errors.Is(err, ErrNoActiveImage)
}
