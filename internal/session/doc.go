// Package session implements the photo editing session state machine.
//
// A Session owns three image references:
//
//   - original: the uploaded image, used only by ResetToOriginal
//   - base: the input of every non-destructive recompute; replaced by
//     destructive transforms
//   - displayed: the last rendered result
//
// plus the live adjustment parameters and filter set. Slider and filter
// changes are debounced through a coalesce.Coalescer and always rendered
// from base, never from an earlier rendered result. Transforms (rotate,
// flip, crop) go to the Processor directly and redefine base.
//
// # History
//
// Commit, Transform and ResetToOriginal record a snapshot (base,
// adjustments, filters) in a bounded history.Stack. Undo and Redo render
// the neighbouring snapshot first and only move through history once the
// render succeeded, so a failed render leaves the session exactly as it was.
//
// # Concurrency
//
// Every Processor call runs under a single work lock: a transform never
// starts while a recompute is in flight, and vice versa. Each change to
// base, adjustments or filters bumps a generation counter; a recompute
// whose generation is no longer current when its response arrives is
// discarded, so a late response never overwrites a newer state.
//
// All methods are safe for concurrent use.
package session
