// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagValidators(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		validators []FlagValidatorType
		wantErr    string
	}{
		{name: "text output", value: "text", validators: []FlagValidatorType{OutputValidator}},
		{name: "json output", value: "json", validators: []FlagValidatorType{OutputValidator}},
		{name: "yaml output", value: "yaml", validators: []FlagValidatorType{OutputValidator}},
		{name: "raw output", value: "raw", validators: []FlagValidatorType{OutputValidator}, wantErr: "must be one of [text json yaml]"},
		{name: "jammed", value: "--output", validators: []FlagValidatorType{JammedFlagValidator}, wantErr: "must not begin with '--'"},
		{name: "single dash ok", value: "-", validators: []FlagValidatorType{JammedFlagValidator}},
		{name: "positive", value: "25", validators: []FlagValidatorType{PositiveIntValidator}},
		{name: "zero", value: "0", validators: []FlagValidatorType{PositiveIntValidator}, wantErr: "must be a positive integer"},
		{name: "not a number", value: "ten", validators: []FlagValidatorType{PositiveIntValidator}, wantErr: "must be a positive integer"},
		{name: "first failure wins", value: "--x", validators: []FlagValidatorType{JammedFlagValidator, OutputValidator}, wantErr: "must not begin with '--'"},
		{name: "no validators", value: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validators...)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
