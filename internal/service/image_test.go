package service_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zh-Andrew/foodgram-project-react/internal/apperr"
	"github.com/Zh-Andrew/foodgram-project-react/internal/service"
)

func TestImageResolvePassthrough(t *testing.T) {
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir()))

	for _, ref := range []string{"", "/media/existing.jpg", "https://example.com/pic.png"} {
		got, err := images.Resolve(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestImageResolveDataURI(t *testing.T) {
	dir := t.TempDir()
	images := service.NewImageService(service.NewLocalImageStore(dir))

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	ref, err := images.Resolve(context.Background(), uri)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/media/"))
	assert.True(t, strings.HasSuffix(ref, ".jpeg"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestImageResolveRejectsMalformed(t *testing.T) {
	images := service.NewImageService(service.NewLocalImageStore(t.TempDir()))
	ctx := context.Background()

	for _, uri := range []string{
		"data:image/png",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/;base64,aGVsbG8=",
		"data:image/png;base64,%%%not-base64%%%",
	} {
		_, err := images.Resolve(ctx, uri)
		require.Error(t, err, uri)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}
