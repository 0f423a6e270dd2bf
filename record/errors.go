// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package record

import (
	"errors"
	"fmt"
)

var (
	ErrDeserialization   = errors.New("failed to deserialize address info")
	ErrInsufficientBytes = errors.New("insufficient bytes")
	ErrInvalidUTF8       = errors.New("invalid UTF-8")
)

var (
	errShortNameLen    = fmt.Errorf("%w for name length", ErrInsufficientBytes)
	errShortName       = fmt.Errorf("%w for name", ErrInsufficientBytes)
	errShortHouse      = fmt.Errorf("%w for house number", ErrInsufficientBytes)
	errShortStreetLen  = fmt.Errorf("%w for street length", ErrInsufficientBytes)
	errShortStreet     = fmt.Errorf("%w for street", ErrInsufficientBytes)
	errShortCityLen    = fmt.Errorf("%w for city length", ErrInsufficientBytes)
	errShortCity       = fmt.Errorf("%w for city", ErrInsufficientBytes)
	errBadNameUTF8     = fmt.Errorf("%w in name", ErrInvalidUTF8)
	errBadStreetUTF8   = fmt.Errorf("%w in street", ErrInvalidUTF8)
	errBadCityUTF8     = fmt.Errorf("%w in city", ErrInvalidUTF8)
	errTrailingBytes   = fmt.Errorf("%w: not all bytes read", ErrDeserialization)
	errOutOfBounds     = fmt.Errorf("%w: length exceeds input", ErrDeserialization)
	errInvalidTextUTF8 = fmt.Errorf("%w: %w", ErrDeserialization, ErrInvalidUTF8)
)
