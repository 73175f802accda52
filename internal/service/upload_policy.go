package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrEmptyFile          = errors.New("file is empty")
)

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/webp"}
	documentTypes = append([]string{"application/pdf"}, imageTypes...)
)

// UploadPolicy validates uploaded content by sniffing its bytes rather than
// trusting the client supplied name or content type.
type UploadPolicy struct {
	MaxBytes int64
}

// SniffedFile is an accepted upload with its detected type.
type SniffedFile struct {
	ContentType string
	Extension   string
	Size        int64
}

func (p UploadPolicy) CheckImage(r io.ReadSeeker, size int64) (*SniffedFile, error) {
	return p.check(r, size, imageTypes)
}

func (p UploadPolicy) CheckDocument(r io.ReadSeeker, size int64) (*SniffedFile, error) {
	return p.check(r, size, documentTypes)
}

func (p UploadPolicy) check(r io.ReadSeeker, size int64, allowed []string) (*SniffedFile, error) {
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, p.MaxBytes)
	}

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mt.String())
	}

	return &SniffedFile{
		ContentType: mt.String(),
		Extension:   mt.Extension(),
		Size:        size,
	}, nil
}
