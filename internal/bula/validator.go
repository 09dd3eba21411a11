package bula

import (
	"encoding/base64"
	"strings"

	"bula/internal/ocr"
)

// DecodeImage validates a base64 image payload and returns the raw bytes.
// Data URL prefixes ("data:image/jpeg;base64,") are accepted.
func DecodeImage(imageData string) ([]byte, error) {
	const op = "ValidateInput"

	payload := strings.TrimSpace(imageData)
	if payload == "" {
		return nil, invalidArgument(op, "Os dados da imagem (Base64) são obrigatórios.", ErrEmptyImage)
	}

	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}

	image, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients send unpadded or URL-safe payloads.
		image, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return nil, invalidArgument(op, "Os dados da imagem não estão em Base64 válido.", ErrInvalidImage)
	}

	if len(image) == 0 {
		return nil, invalidArgument(op, "Os dados da imagem (Base64) são obrigatórios.", ErrEmptyImage)
	}
	if len(image) > ocr.MaxImageSizeBytes {
		return nil, invalidArgument(op, "A imagem excede o tamanho máximo de 20MB.", ErrImageTooLarge)
	}

	return image, nil
}
