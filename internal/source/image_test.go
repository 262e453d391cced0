package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scenariogen/internal/llm"
)

type fakeVision struct {
	analysis string
	err      error
	calls    []llm.ImagePayload
}

func (f *fakeVision) AnalyzeImage(ctx context.Context, prompt string, image llm.ImagePayload) (string, error) {
	f.calls = append(f.calls, image)
	if f.err != nil {
		return "", f.err
	}
	return f.analysis, nil
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}, 0644))
	return path
}

func TestImageLoader_Load(t *testing.T) {
	vision := &fakeVision{analysis: "WYSIWYG editor with a formatting toolbar"}
	loader := NewImageLoader(vision, zap.NewNop())

	path := writeImage(t, "mockup.png")
	input, err := loader.Load(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, KindImage, input.Kind)
	assert.Contains(t, input.Text, "=== Image Analysis 1: mockup.png ===")
	assert.Contains(t, input.Text, "WYSIWYG editor")
	require.Len(t, vision.calls, 1)
	assert.Equal(t, "image/png", vision.calls[0].MIMEType)
	assert.NotEmpty(t, vision.calls[0].Data)
}

func TestImageLoader_SkipsBadImagesKeepsGood(t *testing.T) {
	vision := &fakeVision{analysis: "analysis text"}
	loader := NewImageLoader(vision, zap.NewNop())

	good := writeImage(t, "good.jpg")
	missing := filepath.Join(t.TempDir(), "missing.png")

	input, err := loader.Load(context.Background(), []string{missing, good})
	require.NoError(t, err)
	assert.Contains(t, input.Text, "good.jpg")
	assert.Len(t, vision.calls, 1)
}

func TestImageLoader_UnsupportedFormat(t *testing.T) {
	vision := &fakeVision{analysis: "x"}
	loader := NewImageLoader(vision, zap.NewNop())

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

	_, err := loader.Load(context.Background(), []string{path})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, KindImage, loadErr.Source)
	assert.Empty(t, vision.calls)
}

func TestImageLoader_VisionFailure(t *testing.T) {
	vision := &fakeVision{err: errors.New("model timeout")}
	loader := NewImageLoader(vision, zap.NewNop())

	path := writeImage(t, "mockup.png")
	_, err := loader.Load(context.Background(), []string{path})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestImageLoader_NoPaths(t *testing.T) {
	loader := NewImageLoader(&fakeVision{}, nil)
	_, err := loader.Load(context.Background(), nil)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestImageLoader_EmptyAnalysis(t *testing.T) {
	vision := &fakeVision{analysis: "   "}
	loader := NewImageLoader(vision, zap.NewNop())

	path := writeImage(t, "mockup.webp")
	_, err := loader.Load(context.Background(), []string{path})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}
