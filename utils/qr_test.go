package utils

import (
	"bytes"
	"image/png"
	"net/url"
	"strings"
	"testing"
)

func TestBuildUPILink(t *testing.T) {
	link := BuildUPILink("vendor@upi", "Acme Traders")
	if !strings.HasPrefix(link, "upi://pay?") {
		t.Fatalf("unexpected scheme: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	q := parsed.Query()
	if q.Get("pa") != "vendor@upi" {
		t.Errorf("pa = %q, want vendor@upi", q.Get("pa"))
	}
	if q.Get("pn") != "Acme Traders" {
		t.Errorf("pn = %q, want Acme Traders", q.Get("pn"))
	}
	if q.Get("cu") != "INR" {
		t.Errorf("cu = %q, want INR", q.Get("cu"))
	}
}

func TestBuildUPILinkOmitsEmptyName(t *testing.T) {
	link := BuildUPILink("vendor@upi", "")
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link does not parse: %v", err)
	}
	if _, ok := parsed.Query()["pn"]; ok {
		t.Error("pn should be omitted when payee name is empty")
	}
}

func TestGenerateUPIQR(t *testing.T) {
	data, err := GenerateUPIQR("vendor@upi", "Acme Traders")
	if err != nil {
		t.Fatalf("GenerateUPIQR failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("image is %dx%d, want 256x256", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateUPIQRRequiresUPIID(t *testing.T) {
	if _, err := GenerateUPIQR("", "Acme Traders"); err == nil {
		t.Error("expected error for empty UPI ID")
	}
}
