// Package encdetect guesses the text encoding of an input file from a
// bounded byte sample and provides a decoding reader for the guessed
// charset.
//
// Detection is best-effort by design: an inconclusive sample degrades to
// UTF-8 instead of failing, so a weak guess can never abort a run. Callers
// log whatever label comes back and proceed.
package encdetect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultSampleSize is the number of bytes read from the start of the file
// when no explicit sample size is given.
const DefaultSampleSize = 10000

// fallbackLabel is used whenever detection is inconclusive.
const fallbackLabel = "UTF-8"

// Detect reads up to sampleSize bytes from the start of the file at path and
// returns the best-guess charset label with the detector's confidence
// (0-100). sampleSize <= 0 selects DefaultSampleSize.
//
// Only the file open/read can fail; an inconclusive or empty sample yields
// ("UTF-8", 0, nil) so callers never treat weak detection as an error.
func Detect(path string, sampleSize int) (label string, confidence int, err error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", 0, fmt.Errorf("sample %s: %w", path, err)
	}
	sample = sample[:n]
	if len(sample) == 0 {
		return fallbackLabel, 0, nil
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		return fallbackLabel, 0, nil
	}
	return res.Charset, res.Confidence, nil
}

// NewReader wraps r so that bytes are decoded from the charset named by
// label into UTF-8. Unknown or UTF-8-family labels return r decorated only
// with BOM removal, so a bad guess degrades to pass-through rather than an
// error.
func NewReader(r io.Reader, label string) io.Reader {
	if isUTF8(label) {
		// Decoding is a no-op but a leading BOM still needs stripping.
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	// BOMOverride lets a byte-order mark win over a wrong detector guess.
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}

// isUTF8 matches the labels the detector emits for plain UTF-8 input.
func isUTF8(label string) bool {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "", "UTF-8", "UTF8", "ASCII", "US-ASCII":
		return true
	}
	return false
}
