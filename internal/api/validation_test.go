package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Role  string `validate:"required,oneof=coach athlete"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Name: "Ann", Email: "ann@example.com", Role: "athlete"})
	assert.Empty(t, errs)
}

func TestValidateStruct_CollectsFailures(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Email: "not-an-address", Role: "janitor"})
	require.Len(t, errs, 3)

	byField := map[string]FieldError{}
	for _, fe := range errs {
		byField[fe.Field] = fe
	}

	assert.Equal(t, "required", byField["Name"].Tag)
	assert.Equal(t, "Name is required", byField["Name"].Message)
	assert.Equal(t, "Email must be a valid email address", byField["Email"].Message)
	assert.Equal(t, "Role must be one of: coach athlete", byField["Role"].Message)
}
