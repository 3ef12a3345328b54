package services

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

const (
	// QRModuleSize is the edge length of one QR module in pixels
	QRModuleSize = 10
	// QRBorderModules is the quiet zone on every side. go-qrcode draws exactly
	// this many modules whenever DisableBorder is false.
	QRBorderModules = 4

	qrContentType = "image/png"
)

// QRCodeService renders ticket keys as PNG QR codes
type QRCodeService struct {
	level      qrcode.RecoveryLevel
	moduleSize int
}

// NewQRCodeService creates a QR encoder with low error correction and fixed module size
func NewQRCodeService() *QRCodeService {
	return &QRCodeService{
		level:      qrcode.Low,
		moduleSize: QRModuleSize,
	}
}

// Encode returns the PNG bytes of a QR code for content. The output is
// deterministic for a given content.
func (s *QRCodeService) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("empty QR content")
	}

	code, err := qrcode.New(content, s.level)
	if err != nil {
		return nil, fmt.Errorf("failed to build QR code: %w", err)
	}
	code.DisableBorder = false

	// a negative size fixes the pixel width of each module
	img := code.Image(-s.moduleSize)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}

	return buf.Bytes(), nil
}

// ContentType is the MIME type of encoded artifacts
func (s *QRCodeService) ContentType() string {
	return qrContentType
}
