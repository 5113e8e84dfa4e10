package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"strings"

	"golang.org/x/image/draw"

	"github.com/sellboxapp/sellbox-backend/pkg/config"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
)

// extByContentType maps the accepted upload types to their file extension.
// webp is accepted but never re-encoded, the stdlib has no webp encoder.
var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Processor validates and downscales buyer-uploaded product images before
// they reach object storage.
type Processor struct {
	cfg config.MediaConfig
}

// NewProcessor builds an image processor with the configured limits.
func NewProcessor(cfg config.MediaConfig) *Processor {
	return &Processor{cfg: cfg}
}

// Validate checks the declared content type and payload size. It runs before
// any storage call so oversized or unsupported uploads fail cheaply.
func (p *Processor) Validate(contentType string, size int64) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unreadable image content type")
	}
	if _, ok := extByContentType[mediaType]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type, use jpeg, png or webp")
	}
	if max := int64(p.cfg.MaxUploadMB) * 1024 * 1024; max > 0 && size > max {
		return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit")
	}
	return nil
}

// Ext returns the canonical file extension for an accepted content type.
func (p *Processor) Ext(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "bin"
	}
	if ext, ok := extByContentType[mediaType]; ok {
		return ext
	}
	return "bin"
}

// Process downscales the image so neither axis exceeds the configured bounds,
// preserving aspect ratio. The transform is best-effort: webp passes through
// untouched, and a payload that fails to decode is returned unchanged rather
// than rejected.
func (p *Processor) Process(contentType string, data []byte) []byte {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "image/webp" {
		return data
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	maxW, maxH := p.cfg.ImageMaxWidth, p.cfg.ImageMaxHeight
	if maxW <= 0 || maxH <= 0 || (width <= maxW && height <= maxH) {
		return data
	}

	scale := float64(maxW) / float64(width)
	if hScale := float64(maxH) / float64(height); hScale < scale {
		scale = hScale
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality()})
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}

func (p *Processor) quality() int {
	if p.cfg.ImageQuality <= 0 || p.cfg.ImageQuality > 100 {
		return jpeg.DefaultQuality
	}
	return p.cfg.ImageQuality
}

// IsSupported reports whether the content type is one the intake accepts.
func IsSupported(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := extByContentType[mediaType]
	return ok
}

// NormalizeContentType strips parameters and lowercases the media type.
func NormalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
