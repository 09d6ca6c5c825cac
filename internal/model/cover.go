package model

import "fmt"

// PictureType is the ID3v2 APIC picture type code.
//
// Only a handful of the 21 codes defined by ID3v2 are named here; the
// rest are still accepted as raw values.
type PictureType byte

const (
	// PictureOther is type 0x00.
	PictureOther PictureType = 0x00

	// PictureFileIcon is type 0x01 (32x32 PNG file icon).
	PictureFileIcon PictureType = 0x01

	// PictureFrontCover is type 0x03, the album front cover.
	PictureFrontCover PictureType = 0x03

	// PictureBackCover is type 0x04.
	PictureBackCover PictureType = 0x04
)

// String returns the human-readable name of the picture type.
func (p PictureType) String() string {
	switch p {
	case PictureOther:
		return "Other"
	case PictureFileIcon:
		return "File icon"
	case PictureFrontCover:
		return "Front cover"
	case PictureBackCover:
		return "Back cover"
	default:
		return fmt.Sprintf("Type %d", byte(p))
	}
}

const (
	// DefaultDescription is the APIC description written with every cover.
	DefaultDescription = "Cover"

	// MIMEPNG is the MIME type of normalized covers.
	MIMEPNG = "image/png"

	// MIMEJPEG is the MIME type used when a cover's format is unknown.
	MIMEJPEG = "image/jpeg"
)

// Cover is the cover-art frame written into an audio file's tag.
//
// The frame is overwritten, never merged: writing a Cover replaces any
// existing picture of the same PictureType.
type Cover struct {
	// MIMEType of Data, e.g. "image/png".
	MIMEType string

	// PictureType is the APIC picture type, PictureFrontCover by default.
	PictureType PictureType

	// Description is the APIC content description.
	Description string

	// Data is the encoded image.
	Data []byte
}

// NewFrontCover returns a front-cover frame with the default description.
func NewFrontCover(mimeType string, data []byte) Cover {
	return Cover{
		MIMEType:    mimeType,
		PictureType: PictureFrontCover,
		Description: DefaultDescription,
		Data:        data,
	}
}

// Size returns the length of the image data in bytes.
func (c Cover) Size() int {
	return len(c.Data)
}
