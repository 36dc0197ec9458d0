// Package imaging is the in-process image processing service of the photo
// editor. It implements the three service calls a session needs (upload,
// adjust and transform) on top of github.com/disintegration/imaging, with
// bild for the sepia tone and go-colorful for saturation in HSV space.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (X,Y) is the inclusive top-left corner and W,H the size
//
// # Adjustment Scales
//
// Brightness, contrast and saturation arrive on the 0-200 slider scale and
// are applied as offsets from the neutral value 100:
//   - Brightness: added to every channel (-100..100)
//   - Contrast: factor 259(v+255) / (255(259-v)) around mid-gray
//   - Saturation: HSV saturation scaled by 1 + v/100
//
// Sharpness (0-100) is the opacity of a 3x3 sharpened copy blended over the
// image.
//
// # Filters
//
// Enabled filters run after the adjustments in a fixed order: grayscale,
// sepia, negative, blur (Gaussian, sigma 2.6), sobel (gradient magnitude).
//
// # Thread Safety
//
// Processor and ImageCache are safe for concurrent use. The functions that
// operate on image.Image values never modify their input and always return a
// new image.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Empty or undecodable uploads
//   - Out-of-range adjustment parameters
//   - Transforms that are not exactly one rotate, flip or crop
//   - Cancelled contexts
package imaging
