// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/hashicorp/stratum/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []any
		want *errors.Template
	}{
		{
			name: "all-fields",
			args: []any{
				"test error msg",
				errors.InvalidParameter,
				errors.Op("alice.Bob"),
				stderrors.New("wrapped"),
				errors.Integrity,
			},
			want: &errors.Template{
				Err: errors.Err{
					Msg:     "test error msg",
					Code:    errors.InvalidParameter,
					Op:      "alice.Bob",
					Wrapped: stderrors.New("wrapped"),
				},
				Kind: errors.Integrity,
			},
		},
		{
			name: "Err",
			args: []any{
				&errors.Err{
					Msg:  "test error msg",
					Code: errors.InvalidParameter,
				},
			},
			want: &errors.Template{
				Err: errors.Err{
					Msg:  "test error msg",
					Code: errors.InvalidParameter,
				},
			},
		},
		{
			name: "ignored-arg",
			args: []any{
				22,
			},
			want: &errors.Template{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			tmpl := errors.T(tt.args...)
			assert.Equal(tt.want, tmpl)
		})
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()
	testErr := errors.New(errors.InvalidParameter, "alice.Bob", "test msg")
	tests := []struct {
		name     string
		template *errors.Template
		err      error
		want     bool
	}{
		{
			name:     "nil-template",
			template: nil,
			err:      testErr,
			want:     false,
		},
		{
			name:     "nil-err",
			template: errors.T(errors.InvalidParameter),
			err:      nil,
			want:     false,
		},
		{
			name:     "not-domain-err",
			template: errors.T(errors.InvalidParameter),
			err:      stderrors.New("std error"),
			want:     false,
		},
		{
			name:     "match-code",
			template: errors.T(errors.InvalidParameter),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-op",
			template: errors.T(errors.Op("alice.Bob")),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-msg",
			template: errors.T("test msg"),
			err:      testErr,
			want:     true,
		},
		{
			name:     "match-kind",
			template: errors.T(errors.Parameter),
			err:      testErr,
			want:     true,
		},
		{
			name:     "no-match-code",
			template: errors.T(errors.RecordNotFound),
			err:      testErr,
			want:     false,
		},
		{
			name:     "no-match-op",
			template: errors.T(errors.Op("nope.Nope")),
			err:      testErr,
			want:     false,
		},
		{
			name:     "match-wrapped-template",
			template: errors.T(errors.T(errors.InvalidParameter)),
			err:      errors.Wrap(testErr, "charlie.Dave"),
			want:     true,
		},
		{
			name:     "match-through-wrap",
			template: errors.T(errors.Op("charlie.Dave"), errors.InvalidParameter),
			err:      errors.Wrap(testErr, "charlie.Dave"),
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.want, errors.Match(tt.template, tt.err))
		})
	}
}
