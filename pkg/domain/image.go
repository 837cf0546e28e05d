package domain

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const defaultImageMIMEType = "image/png"

// PendingImage is the picked image waiting for the injury description.
type PendingImage struct {
	Data     []byte
	MIMEType string
}

// NewPendingImage sniffs the MIME type, falling back to image/png for unrecognised data.
func NewPendingImage(data []byte) PendingImage {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = defaultImageMIMEType
	}
	return PendingImage{Data: data, MIMEType: mimeType}
}

func (p PendingImage) IsEmpty() bool {
	return len(p.Data) == 0
}

func (p PendingImage) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}
