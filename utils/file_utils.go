package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum slip size (5MB)
	maxFileSize = 5 * 1024 * 1024

	slipDir      = "slips"
	thumbnailDir = "thumbnails"
	qrDir        = "qrcodes"
)

// Allowed payment slip extensions. Slips are either a screenshot or a
// bank-generated PDF receipt.
var allowedSlipExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ValidateSlipType checks the file extension of an uploaded slip.
func ValidateSlipType(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedSlipExts[ext] {
		return fmt.Errorf("unsupported slip format. Allowed formats: jpg, jpeg, png, pdf")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	for _, dir := range []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, slipDir),
		filepath.Join(uploadBaseDir, thumbnailDir),
		filepath.Join(uploadBaseDir, qrDir),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// SaveSlip stores a payment slip under a random name and returns its URL.
// Image slips also get a 300px thumbnail for the request detail view; PDFs
// are stored as-is.
func SaveSlip(fileData []byte, originalName string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}
	if err := ValidateSlipType(originalName); err != nil {
		return "", err
	}
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	// Random names prevent collisions and stop uploaders from guessing
	// each other's slip URLs.
	name := uuid.New().String() + ext
	fullPath := filepath.Join(uploadBaseDir, slipDir, name)

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	if ext != ".pdf" {
		if err := writeThumbnail(fileData, name); err != nil {
			// The full-size slip is already saved; a missing thumbnail
			// only degrades the list view.
			log.Printf("thumbnail generation failed for %s: %v", name, err)
		}
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, slipDir, name), nil
}

func writeThumbnail(fileData []byte, name string) error {
	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	thumbPath := filepath.Join(uploadBaseDir, thumbnailDir, name)
	return imaging.Save(thumb, thumbPath)
}

// SaveQRCode stores a generated QR PNG and returns its URL.
func SaveQRCode(pngData []byte, ownerHint string) (string, error) {
	if err := InitializeStorage(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.png", ownerHint, uuid.New().String())
	fullPath := filepath.Join(uploadBaseDir, qrDir, name)
	if err := os.WriteFile(fullPath, pngData, 0644); err != nil {
		return "", fmt.Errorf("failed to write QR code: %v", err)
	}
	return fmt.Sprintf("%s/%s/%s", baseURL, qrDir, name), nil
}

// SlipPath resolves a stored slip URL back to the local file path, refusing
// anything that escapes the uploads directory.
func SlipPath(fileURL string) (string, error) {
	trimmed := strings.TrimPrefix(fileURL, baseURL+"/")
	clean := filepath.Clean(trimmed)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid file reference")
	}
	return filepath.Join(uploadBaseDir, clean), nil
}
