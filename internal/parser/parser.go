package parser

import "strings"

// Parse normalizes a raw ingestion chunk into a signal token. Matching is
// case-insensitive and whitespace-trimmed; unknown messages pass through
// as their trimmed lowercase form.
func Parse(data []byte) string {
	message := strings.ToLower(strings.TrimSpace(DecodeRaw(data)))

	switch {
	case strings.Contains(message, "izquierda"),
		strings.Contains(message, "left"),
		message == "i":
		return "izquierda"
	case strings.Contains(message, "derecha"),
		strings.Contains(message, "right"),
		message == "d":
		return "derecha"
	}

	return message
}

// DecodeRaw decodes bytes as UTF-8, dropping invalid sequences instead of
// failing. Headset firmware occasionally emits garbage between frames.
func DecodeRaw(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
