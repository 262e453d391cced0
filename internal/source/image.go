package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"scenariogen/internal/llm"
)

// visionClient is the slice of the model client the image loader needs.
type visionClient interface {
	AnalyzeImage(ctx context.Context, prompt string, image llm.ImagePayload) (string, error)
}

// imageAnalysisPrompt asks the vision model for testing-relevant detail about
// a UI screenshot or mockup.
const imageAnalysisPrompt = `Analyze this UI/feature image and provide detailed information about:

1. **UI Components**: What UI elements, buttons, forms, menus are visible?
2. **User Interactions**: What user actions/interactions are possible?
3. **Feature Functionality**: What feature or functionality does this represent?
4. **Data Flow**: What data inputs/outputs are visible?
5. **User Experience**: What is the expected user journey/workflow?
6. **Edge Cases**: What potential edge cases or error scenarios can you identify?
7. **Integration Points**: What external systems or components might be involved?

Provide a comprehensive analysis that would help in creating test scenarios.`

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageLoader reads feature images from disk and extracts a textual analysis
// through the vision-capable model.
type ImageLoader struct {
	vision visionClient
	logger *zap.Logger
}

// NewImageLoader creates an image loader backed by the given vision client.
func NewImageLoader(vision visionClient, logger *zap.Logger) *ImageLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageLoader{vision: vision, logger: logger.Named("image")}
}

// Load analyzes each image and concatenates the per-image analyses. Images
// that fail to read or analyze are skipped; if none yield usable text the
// whole load fails.
func (l *ImageLoader) Load(ctx context.Context, paths []string) (Input, error) {
	if len(paths) == 0 {
		return Input{}, newLoadError(KindImage, "no image paths provided")
	}

	var analyses []string
	for idx, path := range paths {
		analysis, err := l.analyzeOne(ctx, path)
		if err != nil {
			l.logger.Warn("skipping image", zap.String("path", path), zap.Error(err))
			continue
		}
		analyses = append(analyses, fmt.Sprintf("=== Image Analysis %d: %s ===\n%s",
			idx+1, filepath.Base(path), analysis))
		l.logger.Info("analyzed image",
			zap.String("path", path),
			zap.Int("chars", len(analysis)))
	}

	if len(analyses) == 0 {
		return Input{}, newLoadError(KindImage, "no usable analysis from %d image(s)", len(paths))
	}

	return Input{
		Kind: KindImage,
		Name: fmt.Sprintf("%d image(s)", len(analyses)),
		Text: strings.Join(analyses, "\n\n"),
	}, nil
}

func (l *ImageLoader) analyzeOne(ctx context.Context, path string) (string, error) {
	mimeType, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image file is empty")
	}

	analysis, err := l.vision.AnalyzeImage(ctx, imageAnalysisPrompt, llm.ImagePayload{
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		return "", fmt.Errorf("vision analysis failed: %w", err)
	}
	if strings.TrimSpace(analysis) == "" {
		return "", fmt.Errorf("vision analysis returned empty result")
	}
	return strings.TrimSpace(analysis), nil
}
