package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedReaction, "missing product side")

	assert.Equal(t, ErrCodeMalformedReaction, err.Code)
	assert.Equal(t, "missing product side", err.Message)
	assert.Empty(t, err.Detail)
	assert.Nil(t, err.Cause)
	assert.NotEmpty(t, err.Stack)
}

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without detail",
			err:  &AppError{Code: ErrCodeTooManySpecies, Message: "five substrates"},
			want: "[RXN_002] five substrates",
		},
		{
			name: "with detail",
			err:  &AppError{Code: ErrCodeInvalidSMILES, Message: "bad token", Detail: "C(("},
			want: "[RXN_004] bad token: C((",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("open models/main: no such file")
	err := Wrap(cause, ErrCodeModelArtifactNotFound, "failed to load model")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeModelArtifactNotFound, err.Code)
	assert.Same(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestWrapPreservesCodeForUnknown(t *testing.T) {
	inner := MalformedReaction("no '=' separator")
	outer := Wrap(inner, CodeUnknown, "prediction failed")

	assert.Equal(t, ErrCodeMalformedReaction, outer.Code)
}

func TestWithDetailAndCause(t *testing.T) {
	base := New(ErrCodeCofactorFileInvalid, "missing SMILES column")
	cause := fmt.Errorf("csv parse error")

	derived := base.WithDetail("cofactors.csv").WithCause(cause)

	assert.Equal(t, "cofactors.csv", derived.Detail)
	assert.Same(t, cause, derived.Cause)
	// Original must remain untouched.
	assert.Empty(t, base.Detail)
	assert.Nil(t, base.Cause)
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := TooManySpecies("5 substrates, max 4")
	mid := fmt.Errorf("encode reactants: %w", inner)
	outer := Wrap(mid, ErrCodeInternal, "prediction failed")

	assert.True(t, IsCode(outer, ErrCodeTooManySpecies))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeMalformedReaction))
	assert.True(t, IsTooManySpecies(outer))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeScoringFailed, GetCode(New(ErrCodeScoringFailed, "boom")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(ErrCodeMalformedReaction))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrCodeModelArtifactNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "RXN", ModuleForCode(ErrCodeInvalidSMILES))
	assert.Equal(t, "MDL", ModuleForCode(ErrCodeInvalidConfiguration))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}

func TestConvenienceFactories(t *testing.T) {
	tests := []struct {
		err  *AppError
		code ErrorCode
	}{
		{MalformedReaction("m"), ErrCodeMalformedReaction},
		{TooManySpecies("m"), ErrCodeTooManySpecies},
		{UnsupportedFingerprintType("m"), ErrCodeFingerprintTypeUnsupported},
		{ModelArtifactNotFound("m"), ErrCodeModelArtifactNotFound},
		{InvalidConfiguration("m"), ErrCodeInvalidConfiguration},
		{InvalidParam("m"), ErrCodeBadRequest},
		{Internal("m"), ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
	}
}
