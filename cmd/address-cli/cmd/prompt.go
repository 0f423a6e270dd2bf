// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// promptName asks for a name on the terminal when none was passed.
func promptName(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return ErrInputEmpty
			}
			return nil
		},
	}
	name, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}
