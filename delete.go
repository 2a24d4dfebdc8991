package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// handleDelete removes one stored file. The filename must be a bare name:
// anything containing a parent reference or a path separator is rejected
// before any filesystem access. Deleting a file that does not exist is an
// error, not a silent success.
// POST /delete
func (s *server) handleDelete(c fiber.Ctx) error {
	if !s.requireAdmin(c) {
		return nil
	}

	var body struct {
		Filename string `json:"filename"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no filename provided",
		})
	}

	if strings.Contains(body.Filename, "..") || strings.ContainsAny(body.Filename, `/\`) {
		log.Printf("[delete] rejected filename %q", body.Filename)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid filename",
		})
	}

	if err := os.Remove(filepath.Join(s.cfg.UploadDir, body.Filename)); err != nil {
		log.Printf("[delete] failed to remove %s: %v", body.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "unable to delete file",
		})
	}

	kind, _ := kindFromName(body.Filename)
	s.hub.broadcastUpdate("removed", body.Filename, kind)

	if s.mirror != nil {
		name := body.Filename
		go func() {
			if err := s.mirror.remove(context.Background(), name); err != nil {
				log.Printf("[mirror] delete of %s failed: %v", name, err)
			}
		}()
	}

	log.Printf("[delete] removed %s", body.Filename)
	return c.JSON(fiber.Map{
		"success": true,
	})
}
