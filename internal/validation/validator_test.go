package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCatalogID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"497-1", true},
		{"973p90c02", true},
		{"BB.1-A", true},
		{"3001", true},
		{"", false},
		{"497 1", false},
		{"x;drop", false},
		{"../etc", false},
		{"ab/cd", false},
		{"café", false},
		{strings.Repeat("a", MaxIDLength), true},
		{strings.Repeat("a", MaxIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCatalogID(tt.in))
		})
	}
}

type pageRequest struct {
	SetNum string `query:"setNum" validate:"required,catalogid"`
	Page   int    `query:"page" validate:"gte=0"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

func TestValidateStruct_OK(t *testing.T) {
	err := ValidateStruct(&pageRequest{SetNum: "7140-1", Page: 2, Level: "info"})
	assert.Nil(t, err)
}

func TestValidateStruct_Messages(t *testing.T) {
	err := ValidateStruct(&pageRequest{SetNum: "x;drop", Page: -1, Level: "loud"})
	require.NotNil(t, err)

	fields := err.Errors()
	require.Len(t, fields, 3)
	assert.Equal(t, "setNum", fields[0].Field())
	assert.Equal(t, "catalogid", fields[0].Tag())
	assert.Equal(t, "x;drop", fields[0].Value())
	assert.Equal(t, "page", fields[1].Field())
	assert.Equal(t, "0", fields[1].Param())
	assert.Equal(t, "level", fields[2].Field())

	assert.Contains(t, err.Error(), "setNum must contain only letters")
	assert.Contains(t, err.Error(), "page must be greater than or equal to 0")
	assert.Contains(t, err.Error(), "level must be one of: debug info warn error")
}

func TestValidateStruct_Required(t *testing.T) {
	err := ValidateStruct(&pageRequest{Level: "debug"})
	require.NotNil(t, err)
	assert.Equal(t, "setNum is required", err.Error())
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestValidateVar(t *testing.T) {
	assert.Nil(t, ValidateVar("setNum", "497-1", "required,catalogid"))

	err := ValidateVar("setNum", "497 1", "required,catalogid")
	require.NotNil(t, err)
	require.Len(t, err.Errors(), 1)
	assert.Equal(t, "setNum", err.Errors()[0].Field())
	assert.Equal(t, "catalogid", err.Errors()[0].Tag())
	assert.Equal(t, "setNum must contain only letters, digits, '-' and '.', at most 64 characters", err.Error())
}

func TestRejected(t *testing.T) {
	err := Rejected("year", "int", "abc", "year must be an integer")
	assert.Equal(t, "year must be an integer", err.Error())
	assert.Equal(t, "abc", err.Errors()[0].Value())
}
