package encoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// vp8xEXIFFlag marks the presence of an EXIF chunk in the VP8X header.
const vp8xEXIFFlag = 0x08

// rawEXIF returns the source file's raw TIFF-endian EXIF block, or nil when
// the file carries none (or it cannot be decoded). Absence of metadata is
// never an error.
func rawEXIF(path string) []byte {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil || x == nil {
		return nil
	}
	return x.Raw
}

// appendEXIFChunk rewrites a WebP byte stream so it carries payload as an
// EXIF chunk. Simple lossy/lossless streams gain a VP8X header built from the
// canvas dimensions; streams that already have one get the EXIF flag set.
// Chunk order follows the container layout: VP8X, image data, EXIF.
func appendEXIFChunk(data, payload []byte, width, height int) ([]byte, error) {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		return nil, fmt.Errorf("not a webp container (%d bytes)", len(data))
	}
	chunks := data[12:]

	var out bytes.Buffer
	out.Grow(len(data) + len(payload) + 32)
	out.WriteString("RIFF")
	out.Write([]byte{0, 0, 0, 0}) // size filled in below
	out.WriteString("WEBP")

	if len(chunks) >= 8 && bytes.Equal(chunks[0:4], []byte("VP8X")) {
		patched := append([]byte(nil), chunks...)
		patched[8] |= vp8xEXIFFlag
		out.Write(patched)
	} else {
		vp8x := make([]byte, 10)
		vp8x[0] = vp8xEXIFFlag
		putUint24(vp8x[4:7], uint32(width-1))
		putUint24(vp8x[7:10], uint32(height-1))
		writeChunk(&out, "VP8X", vp8x)
		out.Write(chunks)
	}

	writeChunk(&out, "EXIF", payload)

	final := out.Bytes()
	binary.LittleEndian.PutUint32(final[4:8], uint32(len(final)-8))
	return final, nil
}

func writeChunk(buf *bytes.Buffer, fourCC string, payload []byte) {
	buf.WriteString(fourCC)
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
	buf.Write(size[:])
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
