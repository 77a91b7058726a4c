package statistics

import "errors"

var ErrInvalidTimeRange = errors.New("invalid time range")
