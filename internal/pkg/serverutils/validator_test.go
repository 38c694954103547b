package serverutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Message string `json:"message" validate:"required"`
	Limit   int    `json:"limit" validate:"omitempty,min=1"`
}

func TestValidateRequestPasses(t *testing.T) {
	err := ValidateRequest(sampleRequest{Message: "hello", Limit: 5})
	assert.NoError(t, err)
}

func TestValidateRequestReportsFields(t *testing.T) {
	err := ValidateRequest(sampleRequest{})
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "expected a ValidationError, got %T", err)
	assert.Contains(t, validationErr.Error(), "Message")
}

func TestSuccessResponseEnvelope(t *testing.T) {
	res := SuccessResponse("done", map[string]string{"k": "v"})
	assert.True(t, res.Success)
	assert.Equal(t, "done", res.Message)
	assert.NotNil(t, res.Data)

	errRes := ErrorResponse("boom")
	assert.False(t, errRes.Success)
	assert.Equal(t, "boom", errRes.Message)
	assert.Nil(t, errRes.Data)
}
