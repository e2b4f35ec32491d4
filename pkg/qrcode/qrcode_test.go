package qrcode_test

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/qrcode"
)

const uri = "otpauth://totp/Shop:alice@example.com?issuer=Shop&secret=JBSWY3DPEHPK3PXP"

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("png of requested size", func(t *testing.T) {
		t.Parallel()
		data, err := qrcode.Generate(uri, 128)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("default size", func(t *testing.T) {
		t.Parallel()
		data, err := qrcode.Generate(uri, 0)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, qrcode.DefaultSize, img.Bounds().Dx())
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := qrcode.Generate("", 128)
		assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
	})
}

func TestGenerateBase64Image(t *testing.T) {
	t.Parallel()

	dataURI, err := qrcode.GenerateBase64Image(uri, 200)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)

	_, err = qrcode.GenerateBase64Image("", 200)
	assert.ErrorIs(t, err, qrcode.ErrEmptyContent)
}
