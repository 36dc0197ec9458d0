package remote

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ironsheep/photo-editor/internal/edit"
)

const dataURLPrefix = "data:image/png;base64,"

// EncodeDataURL renders img as a PNG data URL.
func EncodeDataURL(img edit.ImageRef) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(img.Bytes())
}

// DecodeImagePayload accepts a data URL of any image type or bare base64
// and returns the decoded bytes.
func DecodeImagePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: image is empty", edit.ErrInvalidParameter)
	}
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", edit.ErrInvalidParameter)
		}
		s = s[comma+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64: %w", edit.ErrInvalidParameter, err)
	}
	return data, nil
}

// ProcessRequest is the body of POST /process. Brightness, contrast and
// saturation travel as offsets from neutral (-100..100, 0 = unchanged);
// sharpness is 0..100.
type ProcessRequest struct {
	Image      string `json:"image"`
	Brightness int    `json:"brightness"`
	Contrast   int    `json:"contrast"`
	Saturation int    `json:"saturation"`
	Sharpness  int    `json:"sharpness"`
	Grayscale  bool   `json:"grayscale"`
	Sepia      bool   `json:"sepia"`
	Negative   bool   `json:"negative"`
	Blur       bool   `json:"blur"`
	Sobel      bool   `json:"sobel"`
}

// NewProcessRequest builds the wire form of an adjust call.
func NewProcessRequest(img edit.ImageRef, p edit.AdjustmentParams, fs edit.FilterSet) ProcessRequest {
	return ProcessRequest{
		Image:      EncodeDataURL(img),
		Brightness: p.Brightness - 100,
		Contrast:   p.Contrast - 100,
		Saturation: p.Saturation - 100,
		Sharpness:  p.Sharpness,
		Grayscale:  fs.Has(edit.Grayscale),
		Sepia:      fs.Has(edit.Sepia),
		Negative:   fs.Has(edit.Negative),
		Blur:       fs.Has(edit.Blur),
		Sobel:      fs.Has(edit.Sobel),
	}
}

// Params converts the request back to slider values and a filter set.
func (r ProcessRequest) Params() (edit.AdjustmentParams, edit.FilterSet, error) {
	p := edit.AdjustmentParams{
		Brightness: r.Brightness + 100,
		Contrast:   r.Contrast + 100,
		Saturation: r.Saturation + 100,
		Sharpness:  r.Sharpness,
	}
	if err := p.Validate(); err != nil {
		return edit.AdjustmentParams{}, 0, err
	}

	var fs edit.FilterSet
	for f, on := range map[edit.Filter]bool{
		edit.Grayscale: r.Grayscale,
		edit.Sepia:     r.Sepia,
		edit.Negative:  r.Negative,
		edit.Blur:      r.Blur,
		edit.Sobel:     r.Sobel,
	} {
		if on {
			fs = fs.With(f)
		}
	}
	return p, fs, nil
}

// CropBox is the wire form of a crop rectangle.
type CropBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// TransformRequest is the body of POST /transform. Exactly one of Rotate,
// Flip or Crop must be set.
type TransformRequest struct {
	Image  string   `json:"image"`
	Rotate int      `json:"rotate,omitempty"`
	Flip   string   `json:"flip,omitempty"`
	Crop   *CropBox `json:"crop,omitempty"`
}

// NewTransformRequest builds the wire form of a transform call.
func NewTransformRequest(img edit.ImageRef, op edit.TransformOp) TransformRequest {
	req := TransformRequest{
		Image:  EncodeDataURL(img),
		Rotate: op.Rotate,
		Flip:   string(op.Flip),
	}
	if op.Crop != nil {
		req.Crop = &CropBox{X: op.Crop.X, Y: op.Crop.Y, W: op.Crop.W, H: op.Crop.H}
	}
	return req
}

// Op converts the request into a validated TransformOp.
func (r TransformRequest) Op() (edit.TransformOp, error) {
	op := edit.TransformOp{Rotate: r.Rotate, Flip: edit.FlipAxis(r.Flip)}
	if r.Crop != nil {
		op.Crop = &edit.Rect{X: r.Crop.X, Y: r.Crop.Y, W: r.Crop.W, H: r.Crop.H}
	}
	if err := op.Validate(); err != nil {
		return edit.TransformOp{}, err
	}
	return op, nil
}

// errorBody is the JSON body of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}
