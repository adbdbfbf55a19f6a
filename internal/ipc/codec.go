package ipc

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeUTF16LE transcodes s into raw UTF-16LE bytes, the wire encoding
// spec.md §6 specifies for the IPC channel.
func encodeUTF16LE(s string) ([]byte, error) {
	encoded, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode utf16le: %w", err)
	}
	return encoded, nil
}

// decodeUTF16LE transcodes raw UTF-16LE bytes back into a string.
func decodeUTF16LE(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode utf16le: %w", err)
	}
	return string(decoded), nil
}
