package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gradesdash/internal/errors"
)

type sampleQuery struct {
	Student string `query:"student" validate:"max=8,printable"`
	Lang    string `query:"lang" validate:"omitempty,lang"`
}

func TestValidatorValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		query      sampleQuery
		wantFields []string
	}{
		{"valid", sampleQuery{Student: "Ana", Lang: "es"}, nil},
		{"empty lang allowed", sampleQuery{Student: "Ana"}, nil},
		{"unsupported lang", sampleQuery{Lang: "fr"}, []string{"lang"}},
		{"control characters", sampleQuery{Student: "A\x00na"}, []string{"student"}},
		{"too long and bad lang", sampleQuery{Student: "Maximiliano", Lang: "de"}, []string{"student", "lang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			var fields []string
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidatorMessages(t *testing.T) {
	err := NewValidator().ValidateStruct(sampleQuery{Lang: "fr"})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)
	assert.Equal(t, "lang must be one of: en, es", details.Errors[0].Message)
}
