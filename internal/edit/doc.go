// Package edit defines the value types shared by every part of the photo
// editor: image references, adjustment parameters, filter sets, transform
// operations and history snapshots, plus the error taxonomy.
//
// All types in this package are values. An ImageRef never changes after it
// is created; "modifying" an image always produces a new ImageRef. Copying
// an AdjustmentParams, FilterSet or Snapshot copies the whole state, so a
// snapshot stored in history cannot be changed by later edits.
//
// # Adjustment Scales
//
// Brightness, contrast and saturation use a 0-200 scale where 100 leaves the
// image unchanged. Sharpness uses 0-100 where 0 leaves the image unchanged.
//
// # Errors
//
// Operations report failures by wrapping one of the sentinel errors declared
// in errors.go. Callers match them with errors.Is:
//
//	if errors.Is(err, edit.ErrHistoryEmpty) {
//	    // nothing to undo, not a failure
//	}
package edit
