package encoder

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"webpmill/internal/testsupport"
)

func simpleLossyContainer(payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString("WEBP")
	writeChunk(&buf, "VP8 ", payload)
	data := buf.Bytes()
	binary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	return data
}

func TestAppendEXIFChunkBuildsVP8X(t *testing.T) {
	container := simpleLossyContainer([]byte{1, 2, 3, 4})
	payload := []byte("II*\x00exif-bytes")

	out, err := appendEXIFChunk(container, payload, 640, 480)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(out[0:4], []byte("RIFF")) || !bytes.Equal(out[8:12], []byte("WEBP")) {
		t.Fatalf("bad container header: % x", out[:12])
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(len(out)-8) {
		t.Fatalf("riff size = %d, want %d", got, len(out)-8)
	}

	if !bytes.Equal(out[12:16], []byte("VP8X")) {
		t.Fatalf("first chunk = %q, want VP8X", out[12:16])
	}
	vp8x := out[20:30]
	if vp8x[0]&vp8xEXIFFlag == 0 {
		t.Fatalf("EXIF flag not set in VP8X: %08b", vp8x[0])
	}
	width := 1 + (uint32(vp8x[4]) | uint32(vp8x[5])<<8 | uint32(vp8x[6])<<16)
	height := 1 + (uint32(vp8x[7]) | uint32(vp8x[8])<<8 | uint32(vp8x[9])<<16)
	if width != 640 || height != 480 {
		t.Fatalf("canvas = %dx%d, want 640x480", width, height)
	}

	idx := bytes.Index(out, []byte("EXIF"))
	if idx < 0 {
		t.Fatal("EXIF chunk missing")
	}
	size := binary.LittleEndian.Uint32(out[idx+4 : idx+8])
	if int(size) != len(payload) {
		t.Fatalf("exif chunk size = %d, want %d", size, len(payload))
	}
	if !bytes.Equal(out[idx+8:idx+8+int(size)], payload) {
		t.Fatal("exif payload did not round-trip")
	}
	// Odd payload sizes get a pad byte; total length stays even.
	if len(out)%2 != 0 {
		t.Fatalf("container length %d is odd", len(out))
	}
}

func TestAppendEXIFChunkPatchesExistingVP8X(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString("WEBP")
	vp8x := make([]byte, 10)
	putUint24(vp8x[4:7], 639)
	putUint24(vp8x[7:10], 479)
	writeChunk(&buf, "VP8X", vp8x)
	writeChunk(&buf, "VP8 ", []byte{9, 9, 9, 9})
	container := buf.Bytes()
	binary.LittleEndian.PutUint32(container[4:8], uint32(len(container)-8))

	out, err := appendEXIFChunk(container, []byte("MM\x00*data"), 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out[12:16], []byte("VP8X")) {
		t.Fatalf("first chunk = %q", out[12:16])
	}
	if out[20]&vp8xEXIFFlag == 0 {
		t.Fatal("EXIF flag not set on existing VP8X")
	}
	if bytes.Count(out, []byte("VP8X")) != 1 {
		t.Fatal("VP8X chunk duplicated")
	}
}

func TestAppendEXIFChunkRejectsGarbage(t *testing.T) {
	if _, err := appendEXIFChunk([]byte("not riff data"), []byte("x"), 1, 1); err == nil {
		t.Fatal("expected error for non-webp input")
	}
}

func TestRawEXIFReadsSourceBlock(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "34th_st_south.jpg")
	block := testsupport.WriteJPEGWithEXIF(t, src, 8, 8)

	if got := rawEXIF(src); !bytes.Equal(got, block) {
		t.Fatalf("raw exif = % x, want % x", got, block)
	}
}

func TestRawEXIFAbsentIsNil(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.jpg")
	testsupport.WriteJPEG(t, src, 8, 8)

	if got := rawEXIF(src); got != nil {
		t.Fatalf("expected nil for exif-less source, got % x", got)
	}
}

func TestEncodeCarriesSourceEXIF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "canal_st_north.jpg")
	dst := filepath.Join(dir, "canal_st_north.webp")
	block := testsupport.WriteJPEGWithEXIF(t, src, 8, 8)

	if err := Encode(src, dst, Options{Quality: 82, KeepMetadata: true}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data[12:16], []byte("VP8X")) {
		t.Fatalf("first chunk = %q, want VP8X", data[12:16])
	}
	if data[20]&vp8xEXIFFlag == 0 {
		t.Fatalf("EXIF flag not set in VP8X: %08b", data[20])
	}

	// The EXIF chunk is appended last, so it must close out the container.
	idx := bytes.LastIndex(data, []byte("EXIF"))
	if idx < 0 {
		t.Fatal("EXIF chunk missing from output")
	}
	size := binary.LittleEndian.Uint32(data[idx+4 : idx+8])
	if int(size) != len(block) {
		t.Fatalf("exif chunk size = %d, want %d", size, len(block))
	}
	if idx+8+int(size)+int(size)%2 != len(data) {
		t.Fatalf("exif chunk does not terminate the container (ends %d, len %d)", idx+8+int(size), len(data))
	}
	if !bytes.Equal(data[idx+8:idx+8+int(size)], block) {
		t.Fatal("output exif payload differs from the source block")
	}

	plain := filepath.Join(dir, "no_metadata.webp")
	if err := Encode(src, plain, Options{Quality: 82}); err != nil {
		t.Fatal(err)
	}
	plainData, err := os.ReadFile(plain)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(plainData[12:16], []byte("VP8X")) && plainData[20]&vp8xEXIFFlag != 0 {
		t.Fatal("metadata carried without keep-metadata")
	}
}
