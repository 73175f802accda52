package service

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
)

func TestUploadPolicy_Image(t *testing.T) {
	p := UploadPolicy{MaxBytes: 1024}

	r := bytes.NewReader(pngHeader)
	f, err := p.CheckImage(r, int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, ".png", f.Extension)

	// reader is rewound for storage
	rest, _ := io.ReadAll(r)
	assert.Equal(t, pngHeader, rest)

	_, err = p.CheckImage(bytes.NewReader(pdfHeader), int64(len(pdfHeader)))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestUploadPolicy_Document(t *testing.T) {
	p := UploadPolicy{MaxBytes: 1024}

	f, err := p.CheckDocument(bytes.NewReader(pdfHeader), int64(len(pdfHeader)))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType)

	text := []byte("just some text")
	_, err = p.CheckDocument(bytes.NewReader(text), int64(len(text)))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestUploadPolicy_Size(t *testing.T) {
	p := UploadPolicy{MaxBytes: 4}

	_, err := p.CheckDocument(bytes.NewReader(pdfHeader), int64(len(pdfHeader)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = p.CheckDocument(bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
