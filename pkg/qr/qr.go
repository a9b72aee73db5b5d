// Package qr renders attendance session QR codes as base64 PNG images and
// decodes scanned payloads.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// PayloadType marks attendance session QR payloads
const PayloadType = "attendance_session"

// SessionPayload is the JSON embedded in a session QR image
type SessionPayload struct {
	SessionID string `json:"session_id"`
	QRCode    string `json:"qr_code"`
	Type      string `json:"type"`
}

// GenerateSessionQR renders the session payload as a base64-encoded PNG
func GenerateSessionQR(sessionID, qrCode string) (string, error) {
	payload := SessionPayload{
		SessionID: sessionID,
		QRCode:    qrCode,
		Type:      PayloadType,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Low, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR image: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}

// ExtractToken returns the session QR token from a scanned value. Scanner
// apps post the full JSON payload; kiosks that read the code out of band
// post the bare token.
func ExtractToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty QR value")
	}

	if strings.HasPrefix(raw, "{") {
		var payload SessionPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return "", fmt.Errorf("failed to parse QR payload: %w", err)
		}
		if payload.Type != PayloadType {
			return "", fmt.Errorf("unexpected QR payload type %q", payload.Type)
		}
		if payload.QRCode == "" {
			return "", fmt.Errorf("QR payload has no token")
		}
		return payload.QRCode, nil
	}

	return raw, nil
}
