package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	maxQRWidth  = 2048
	maxQRMargin = 32
)

type QRColors struct {
	Dark  string `json:"dark"`
	Light string `json:"light"`
}

// QROptions mirror the usual QR library options; zero values fall back to defaults.
type QROptions struct {
	ErrorCorrectionLevel string    `json:"errorCorrectionLevel"`
	Width                int       `json:"width"`
	Margin               *int      `json:"margin"`
	Color                *QRColors `json:"color"`
}

type QRCode struct {
	QRCode string `json:"qrCode"`
	Text   string `json:"text"`
	Format string `json:"format"`
}

// QRCodeService delegates encoding to go-qrcode and rasterizes the module bitmap with
// the requested margin and colors.
type QRCodeService struct{}

func NewQRCodeService() *QRCodeService { return &QRCodeService{} }

func (s *QRCodeService) PNG(text string, opts QROptions) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	level, err := recoveryLevel(opts.ErrorCorrectionLevel)
	if err != nil {
		return nil, err
	}
	width := opts.Width
	if width == 0 {
		width = 256
	}
	if width < 0 || width > maxQRWidth {
		return nil, fmt.Errorf("%w: width must be between 1 and %d", ErrValidation, maxQRWidth)
	}
	margin := 1
	if opts.Margin != nil {
		margin = *opts.Margin
	}
	if margin < 0 || margin > maxQRMargin {
		return nil, fmt.Errorf("%w: margin must be between 0 and %d", ErrValidation, maxQRMargin)
	}
	dark, light := color.NRGBA{A: 0xff}, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if opts.Color != nil {
		if opts.Color.Dark != "" {
			if dark, err = ParseHexColor(opts.Color.Dark); err != nil {
				return nil, err
			}
		}
		if opts.Color.Light != "" {
			if light, err = ParseHexColor(opts.Color.Light); err != nil {
				return nil, err
			}
		}
	}

	q, err := qrcode.New(text, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	q.DisableBorder = true

	img := rasterize(q.Bitmap(), width, margin, dark, light)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *QRCodeService) DataURL(text string, opts QROptions) (*QRCode, error) {
	b, err := s.PNG(text, opts)
	if err != nil {
		return nil, err
	}
	return &QRCode{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(b),
		Text:   text,
		Format: "data-url",
	}, nil
}

// rasterize draws the modules plus margin on a square canvas of exactly width pixels.
// Modules are scaled up to fit; when width is smaller than the symbol, the symbol wins.
func rasterize(bitmap [][]bool, width, margin int, dark, light color.NRGBA) *image.NRGBA {
	modules := len(bitmap) + 2*margin
	scale := width / modules
	if scale < 1 {
		scale = 1
	}
	size := modules * scale
	if size < width {
		size = width
	}
	offset := (size-modules*scale)/2 + margin*scale

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, light)
		}
	}
	for r, row := range bitmap {
		for c, on := range row {
			if !on {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetNRGBA(offset+c*scale+dx, offset+r*scale+dy, dark)
				}
			}
		}
	}
	return img
}

func recoveryLevel(l string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(l)) {
	case "L", "LOW":
		return qrcode.Low, nil
	case "", "M", "MEDIUM":
		return qrcode.Medium, nil
	case "Q", "QUARTILE":
		return qrcode.High, nil
	case "H", "HIGH":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("%w: errorCorrectionLevel must be L, M, Q or H", ErrValidation)
}

// ParseHexColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: invalid color %q", ErrValidation, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: invalid color %q", ErrValidation, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
