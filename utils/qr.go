// utils/qr.go
package utils

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// BuildUPILink assembles the upi:// deep link that payment apps scan.
func BuildUPILink(upiID, payeeName string) string {
	v := url.Values{}
	v.Set("pa", upiID)
	if payeeName != "" {
		v.Set("pn", payeeName)
	}
	v.Set("cu", "INR")
	return "upi://pay?" + v.Encode()
}

// GenerateUPIQR renders a vendor's UPI deep link as a QR PNG.
func GenerateUPIQR(upiID, payeeName string) ([]byte, error) {
	if upiID == "" {
		return nil, fmt.Errorf("UPI ID is required")
	}

	code, err := qr.Encode(BuildUPILink(upiID, payeeName), qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR: %v", err)
	}
	code, err = barcode.Scale(code, 256, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to scale QR: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("failed to render QR PNG: %v", err)
	}
	return buf.Bytes(), nil
}
