// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateKeyName = errors.New("duplicate key name")
	ErrNamedKeyNotFound = errors.New("named key not found")
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrInvalidStep      = errors.New("invalid step")
	ErrInvalidEndpoint  = errors.New("invalid endpoint")
	ErrMissingParam     = errors.New("missing param")
	ErrNotAddressRecord = errors.New("account does not hold an address record")
	ErrInputEmpty       = errors.New("input is empty")
)
