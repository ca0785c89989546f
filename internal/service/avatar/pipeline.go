// Package avatar implements the profile-image ingestion pipeline:
// upload acceptance checks, normalization to the canonical stored
// representation, and storage against the user record.
package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/jpeg" // register JPEG decoder

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/platform/logger"
	"github.com/phrazzld/taskward/internal/store"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes is the largest accepted raw upload.
	MaxUploadBytes = 1_000_000

	// Dimension is the side length of the canonical stored image.
	// Every accepted avatar is normalized to Dimension x Dimension PNG.
	Dimension = 250
)

// Acceptance and normalization errors. All map to a 400 at the API
// boundary.
var (
	ErrTooLarge        = errors.New("avatar image exceeds the maximum upload size")
	ErrUnsupportedFile = errors.New("avatar must be a .jpg, .jpeg or .png file")
	ErrInvalidImage    = errors.New("avatar image could not be decoded")
)

// allowedSuffixes are matched case-sensitively against the original
// filename, mirroring the upload filter this service replaces.
var allowedSuffixes = []string{".jpg", ".jpeg", ".png"}

// Accept rejects uploads that are too large or whose original filename
// does not carry an allowed image suffix. It looks only at metadata;
// Normalize is where the bytes are actually decoded.
func Accept(raw []byte, originalFilename string, maxSize int) error {
	if len(raw) > maxSize {
		return ErrTooLarge
	}

	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(originalFilename, suffix) {
			return nil
		}
	}
	return ErrUnsupportedFile
}

// Normalize decodes the image, scales and center-crops it to exactly
// Dimension x Dimension, and re-encodes it as PNG. The output is the
// canonical stored representation regardless of input format.
func Normalize(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Center-crop the source to a square before scaling so the result
	// covers the full target without letterboxing.
	bounds := src.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	x0 := bounds.Min.X + (bounds.Dx()-side)/2
	y0 := bounds.Min.Y + (bounds.Dy()-side)/2
	srcRect := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, Dimension, Dimension))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Service stores and serves normalized avatars against the user record.
type Service struct {
	users store.UserStore
}

// NewService creates a new avatar service backed by the given user store.
func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Set runs the full ingestion pipeline for an upload: acceptance
// checks, normalization, and storage.
func (s *Service) Set(ctx context.Context, userID uuid.UUID, raw []byte, originalFilename string) error {
	log := logger.FromContext(ctx)

	if err := Accept(raw, originalFilename, MaxUploadBytes); err != nil {
		return err
	}

	normalized, err := Normalize(raw)
	if err != nil {
		return err
	}

	if err := s.users.UpdateAvatar(ctx, userID, normalized); err != nil {
		log.Error("failed to store avatar",
			"user_id", userID,
			"error", err)
		return err
	}

	return nil
}

// Clear removes the stored avatar, leaving the user without one.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.users.UpdateAvatar(ctx, userID, nil)
}

// Serve returns the raw stored bytes, always PNG. Returns
// store.ErrUserNotFound or store.ErrAvatarNotFound on misses.
func (s *Service) Serve(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.users.GetAvatar(ctx, userID)
}
