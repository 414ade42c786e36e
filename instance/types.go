package instance

import "errors"

// ErrOpen is returned when the instance file cannot be opened.
var ErrOpen = errors.New("instance: cannot open file")

// ErrParse is returned when the instance file does not follow the expected
// TSPLIB "X"-family layout.
var ErrParse = errors.New("instance: malformed file")
