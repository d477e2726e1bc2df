// Package media persists AI-generated food images to a local object
// directory served by the HTTP layer under /media/. It stands in for a
// hosted bucket; the assistant only sees the model.MediaStore port.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

type Config struct {
	Dir     string `envconfig:"MEDIA_DIR" default:"./media"`
	BaseURL string `envconfig:"MEDIA_BASE_URL" default:"/media"`
}

type Store struct {
	dir     string
	baseURL string
}

func NewStore(cfg Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "food"), 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &Store{dir: cfg.Dir, baseURL: cfg.BaseURL}, nil
}

// Dir returns the root directory for serving via http.FileServer.
func (s *Store) Dir() string {
	return s.dir
}

// SaveFoodImage writes the image bytes and returns the URL path it will be
// served under.
func (s *Store) SaveFoodImage(ctx context.Context, userID string, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("save food image: empty image")
	}
	ext := extensionFor(mimeType)
	name := fmt.Sprintf("%s-%s%s", userID, uuid.NewString(), ext)
	path := filepath.Join(s.dir, "food", name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save food image: %w", err)
	}
	logx.Debug().Str("path", path).Int("bytes", len(data)).Msg("Stored generated food image")
	return s.baseURL + "/food/" + name, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
