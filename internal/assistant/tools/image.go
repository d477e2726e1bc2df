package tools

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

const imageTimeout = 20 * time.Second

// ImageGenerator produces a photo-realistic depiction of logged food. The
// dispatcher treats any failure as "no photo"; images are decoration, not
// data.
type ImageGenerator interface {
	GenerateFoodImage(ctx context.Context, description string) (data []byte, mimeType string, err error)
}

// ImagenGenerator implements ImageGenerator on the gateway's image modality.
type ImagenGenerator struct {
	client *genai.Client
	model  string
}

func NewImagenGenerator(client *genai.Client, model string) *ImagenGenerator {
	return &ImagenGenerator{client: client, model: model}
}

func (g *ImagenGenerator) GenerateFoodImage(ctx context.Context, description string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"A photo-realistic, appetizing overhead photo of: %s. Natural lighting, on a clean plate, no text or watermarks.",
		description)

	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, nil)
	if err != nil {
		return nil, "", fmt.Errorf("generate food image: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, "", fmt.Errorf("generate food image: empty response")
	}

	img := resp.GeneratedImages[0].Image
	logx.Debug().Int("bytes", len(img.ImageBytes)).Msg("Generated food image")
	return img.ImageBytes, img.MIMEType, nil
}
