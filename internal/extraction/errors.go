package extraction

import "errors"

// ErrNoInput is returned when an extraction is attempted with no text,
// image, or audio notes at all
var ErrNoInput = errors.New("provide notes, an image, or a voice recording")
