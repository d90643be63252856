package usecase

import (
	"context"
	"testing"

	"github.com/kirillkom/retail-insights/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationScreenRendersConfidence(t *testing.T) {
	backend := &backendFake{payload: jsonPayload(`{"prediction":"shoes","confidence":0.87}`)}
	screen := NewClassificationScreen(backend, DefaultMaxImageBytes, nil, nil)

	result, err := screen.Submit(context.Background(), domain.ImageFile{Filename: "shoe.png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "shoes", result.Label)
	assert.Equal(t, "87.00%", result.ConfidenceDisplay)
	assert.Equal(t, "image/png", backend.lastImage.ContentType)

	state := screen.State()
	require.NotNil(t, state.Result)
	assert.Equal(t, "87.00%", state.Result.ConfidenceText())
}

func TestClassificationScreenAcceptsPredictedClassField(t *testing.T) {
	backend := &backendFake{payload: jsonPayload(`{"predicted_class":"bags"}`)}
	screen := NewClassificationScreen(backend, 0, nil, nil)

	result, err := screen.Submit(context.Background(), domain.ImageFile{Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, "bags", result.Label)
	assert.Equal(t, "0.00%", result.ConfidenceDisplay)
}

func TestClassificationScreenValidatesFile(t *testing.T) {
	cases := []struct {
		name    string
		file    domain.ImageFile
		message string
	}{
		{name: "missing", file: domain.ImageFile{}, message: "please select an image"},
		{name: "too large", file: domain.ImageFile{Data: append(append([]byte{}, pngHeader...), make([]byte, 64)...)}, message: "image is larger than 32 bytes"},
		{name: "not an image", file: domain.ImageFile{Data: []byte("plain text notes")}, message: "selected file is not an image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &backendFake{}
			screen := NewClassificationScreen(backend, 32, nil, nil)

			_, err := screen.Submit(context.Background(), tc.file)
			require.Error(t, err)
			assert.Equal(t, tc.message, screen.State().Error)
			assert.Equal(t, int32(0), backend.calls.Load())
		})
	}
}
