package encdetect

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// writeTemp creates a file with the given bytes in a per-test directory.
func writeTemp(t *testing.T, name string, b []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestDetect_EmptyFileFallsBack(t *testing.T) {
	p := writeTemp(t, "empty.csv", nil)

	label, conf, err := Detect(p, 0)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if label != "UTF-8" || conf != 0 {
		t.Fatalf("Detect=%q/%d; want UTF-8/0 fallback", label, conf)
	}
}

func TestDetect_MissingFileIsFatal(t *testing.T) {
	_, _, err := Detect(filepath.Join(t.TempDir(), "nope.csv"), 0)
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDetect_UTF8Sample(t *testing.T) {
	p := writeTemp(t, "utf8.csv", []byte("name,city\nŘehoř,Brno\nŽofie,Praha\n"))

	label, _, err := Detect(p, 0)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// The exact label depends on the detector, but decoding through it must
	// round-trip the UTF-8 input unchanged.
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(NewReader(f, label))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(string(got), "Řehoř") {
		t.Fatalf("decoded output lost UTF-8 content: %q", got)
	}
}

func TestNewReader_DecodesLatin1(t *testing.T) {
	// "café" in ISO-8859-1: é = 0xE9.
	raw := []byte{'c', 'a', 'f', 0xE9, '\n'}

	got, err := io.ReadAll(NewReader(bytes.NewReader(raw), "ISO-8859-1"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != "café\n" {
		t.Fatalf("decoded=%q; want %q", got, "café\n")
	}
}

func TestNewReader_UnknownLabelPassesThrough(t *testing.T) {
	in := []byte("plain,data\n1,2\n")

	got, err := io.ReadAll(NewReader(bytes.NewReader(in), "no-such-charset"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("pass-through changed bytes: %q", got)
	}
}

func TestNewReader_StripsUTF8BOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n")...)

	got, err := io.ReadAll(NewReader(bytes.NewReader(in), "UTF-8"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "a,b\n" {
		t.Fatalf("BOM not stripped: %q", got)
	}
}

func TestNewReader_MatchesCharmapDecoder(t *testing.T) {
	// Sanity-check our IANA lookup against the concrete charmap decoder.
	src := []byte{0xE9, 0xE8} // é è in Latin-1
	want, err := charmap.ISO8859_1.NewDecoder().Bytes(src)
	if err != nil {
		t.Fatalf("charmap decode: %v", err)
	}
	got, err := io.ReadAll(NewReader(bytes.NewReader(src), "ISO-8859-1"))
	if err != nil {
		t.Fatalf("NewReader decode: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("decoders disagree: got %q want %q", got, want)
	}
}
