package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Equipment photos are shown as thumbnails next to the check log, so they
// are stored small.
const (
	MaxDimension = 800
	MaxUpload    = 8 << 20
	JPEGQuality  = 80
)

var (
	// ErrUnsupported is returned for anything that is not a JPEG or PNG.
	ErrUnsupported = errors.New("unsupported image format")

	// ErrTooLarge is returned when the upload exceeds MaxUpload bytes.
	ErrTooLarge = errors.New("image too large")
)

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is an equipment photo ready to be stored.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// ProcessPhoto reads an uploaded photo, checks its real format from the
// bytes, shrinks it to fit MaxDimension and re-encodes it as JPEG.
func ProcessPhoto(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUpload {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}
	img = Fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	b := img.Bounds()
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already within bounds are returned unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
