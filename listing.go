package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v3"
)

type mediaItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// listMedia scans the upload dir and returns every known media file with its
// kind. Files with unrecognized extensions (including pre-transcode leftovers
// that were renamed oddly) are skipped. A delete racing this read can leave a
// listed entry that 404s on fetch; listings are eventually consistent.
func (s *server) listMedia() ([]mediaItem, error) {
	entries, err := os.ReadDir(s.cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	items := make([]mediaItem, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind, known := kindFromName(e.Name())
		if !known {
			continue
		}
		items = append(items, mediaItem{Name: e.Name(), Type: string(kind)})
	}
	return items, nil
}

// handleListImages returns the gallery listing as [{name, type}].
// GET /images
func (s *server) handleListImages(c fiber.Ctx) error {
	items, err := s.listMedia()
	if err != nil {
		log.Printf("[images] failed to read upload dir: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unable to read uploads",
		})
	}
	return c.JSON(items)
}
