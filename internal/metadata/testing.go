package metadata

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"testing"
)

// JPEGWithCaptureDate encodes img as a JPEG carrying a minimal EXIF block
// whose only field is DateTimeOriginal set to dateTime.
func JPEGWithCaptureDate(t testing.TB, img image.Image, dateTime string) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test jpeg: %v", err)
	}
	encoded := buf.Bytes()

	segment := exifSegment(dateTime)
	out := make([]byte, 0, len(encoded)+len(segment))
	out = append(out, encoded[:2]...) // SOI
	out = append(out, segment...)
	out = append(out, encoded[2:]...)
	return out
}

// exifSegment builds an APP1 segment holding a little endian TIFF with
// IFD0 -> Exif IFD -> DateTimeOriginal.
func exifSegment(dateTime string) []byte {
	value := append([]byte(dateTime), 0)
	le := binary.LittleEndian

	const (
		ifd0Offset = 8
		exifOffset = ifd0Offset + 2 + 12 + 4
		dataOffset = exifOffset + 2 + 12 + 4
	)

	tiff := make([]byte, dataOffset, dataOffset+len(value))
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], ifd0Offset)

	// IFD0: ExifIFDPointer
	le.PutUint16(tiff[ifd0Offset:], 1)
	entry := tiff[ifd0Offset+2:]
	le.PutUint16(entry[0:], 0x8769)
	le.PutUint16(entry[2:], 4)
	le.PutUint32(entry[4:], 1)
	le.PutUint32(entry[8:], exifOffset)
	le.PutUint32(tiff[ifd0Offset+14:], 0)

	// Exif IFD: DateTimeOriginal
	le.PutUint16(tiff[exifOffset:], 1)
	entry = tiff[exifOffset+2:]
	le.PutUint16(entry[0:], 0x9003)
	le.PutUint16(entry[2:], 2)
	le.PutUint32(entry[4:], uint32(len(value)))
	le.PutUint32(entry[8:], dataOffset)
	le.PutUint32(tiff[exifOffset+14:], 0)

	tiff = append(tiff, value...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	return append(segment, payload...)
}
