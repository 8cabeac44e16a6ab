// Package extract turns uploaded documents into structured teacher and
// student profiles, using an OpenRouter-hosted model when an API key is
// configured and deterministic fallback values when it is not.
package extract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Document is one normalized upload ready for extraction.
type Document struct {
	// Name is the display name inferred from the upload.
	Name string

	// Text is the UTF-8, NFC-normalized document body.
	Text string

	// Digest identifies the document content for idempotency.
	Digest string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDocument normalizes an uploaded file into a Document. Only plain-text
// formats are accepted; binary uploads must be converted upstream.
func ReadDocument(filename string, data []byte) (Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	text := strings.ToValidUTF8(string(norm.NFC.Bytes(data)), "")
	text = strings.TrimSpace(text)
	if text == "" {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, filename)
	}

	return Document{
		Name:   DisplayName(filename),
		Text:   text,
		Digest: ContentDigest(text),
	}, nil
}

// DisplayName derives a human-readable name from a filename, e.g.
// "ms_rivera-bio.txt" becomes "ms rivera bio".
func DisplayName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

// ContentDigest returns the hex digest identifying a document body.
func ContentDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
