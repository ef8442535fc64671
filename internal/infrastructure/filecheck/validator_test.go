package filecheck_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/filecheck"
)

func TestValidate_AcceptsPlainTextReceipt(t *testing.T) {
	v := filecheck.NewBasicValidator()

	result, err := v.Validate(context.Background(), []byte("Amount: 150.00 USD"), "receipt.txt")

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "text/plain; charset=utf-8", result.DetectedMimeType)
	assert.Equal(t, "receipt.txt", result.SanitizedFilename)
}

func TestValidate_AcceptsPNGSignature(t *testing.T) {
	v := filecheck.NewBasicValidator()
	payload := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)

	result, err := v.Validate(context.Background(), payload, "proof.png")

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, "image/png", result.DetectedMimeType)
}

func TestValidate_RejectsUnknownBinary(t *testing.T) {
	v := filecheck.NewBasicValidator()

	result, err := v.Validate(context.Background(), []byte{0x00, 0x01, 0x02, 0x03}, "junk.bin")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Reason)
}

func TestValidate_RejectsOversizedPayload(t *testing.T) {
	v := filecheck.NewBasicValidator()
	v.MaxSize = 8

	result, err := v.Validate(context.Background(), []byte("this is longer than eight bytes"), "big.txt")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestValidate_RejectsEmptyPayload(t *testing.T) {
	v := filecheck.NewBasicValidator()

	result, err := v.Validate(context.Background(), nil, "empty.txt")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestValidate_SanitizesPathTraversal(t *testing.T) {
	v := filecheck.NewBasicValidator()

	result, err := v.Validate(context.Background(), []byte("Amount: 20 USD"), "../../etc/pass wd")

	require.NoError(t, err)
	require.True(t, result.IsValid)
	assert.Equal(t, "pass_wd", result.SanitizedFilename)
}
