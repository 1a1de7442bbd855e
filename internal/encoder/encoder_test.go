package encoder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"webpmill/internal/testsupport"
)

func TestEncodeProducesWebP(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "canal_st.png")
	dst := filepath.Join(dir, "out", "nested", "canal_st.webp")
	testsupport.WritePNG(t, src, 16, 12)

	if err := Encode(src, dst, Options{Quality: 82, Effort: 6}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	assertWebPMagic(t, data)
}

func TestEncodeLossless(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "canal_st.jpg")
	dst := filepath.Join(dir, "canal_st.webp")
	testsupport.WriteJPEG(t, src, 16, 12)

	// Quality is deliberately out of the meaningful range; lossless ignores it.
	if err := Encode(src, dst, Options{Quality: 0, Lossless: true, Effort: 3}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	assertWebPMagic(t, data)
}

func TestEncodeCorruptInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	dst := filepath.Join(dir, "broken.webp")
	testsupport.WriteCorrupt(t, src)

	if err := Encode(src, dst, Options{Quality: 82, Effort: 6}); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("no output expected for failed encode, stat err = %v", err)
	}
}

func assertWebPMagic(t *testing.T, data []byte) {
	t.Helper()
	if len(data) < 12 {
		t.Fatalf("output too short: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Fatalf("output is not a webp container: % x", data[:12])
	}
}
