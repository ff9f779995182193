package wlshm

// Format is a pixel encoding as carried on the wire.
type Format uint32

// Wire values of the supported formats.
const (
	FormatARGB8888 Format = 0
	FormatXRGB8888 Format = 1
)

// bytesPerPixel applies to every supported format.
const bytesPerPixel = 4

// SupportedFormats lists the whitelisted formats in announcement order.
var SupportedFormats = []Format{FormatARGB8888, FormatXRGB8888}

// Supported reports whether f is whitelisted.
func (f Format) Supported() bool {
	switch f {
	case FormatARGB8888, FormatXRGB8888:
		return true
	default:
		return false
	}
}

// BytesPerPixel returns the pixel size of a supported format, 0 otherwise.
func (f Format) BytesPerPixel() int {
	if !f.Supported() {
		return 0
	}
	return bytesPerPixel
}

// HasAlpha reports whether the format carries a meaningful alpha channel.
func (f Format) HasAlpha() bool {
	return f == FormatARGB8888
}

// String returns the human-readable string representation of a Format.
func (f Format) String() string {
	switch f {
	case FormatARGB8888:
		return "ARGB8888"
	case FormatXRGB8888:
		return "XRGB8888"
	default:
		return "UNKNOWN"
	}
}
