package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// transcodedSuffix is appended to the base name of every transcoded video.
// The normalized extension is always .mp4 regardless of the upload container.
const transcodedSuffix = "-compressed"

// handleUpload receives one media file, stores it under a sanitized name, and
// for videos runs it through the transcoder before responding. The response
// filename for a video is the transcoded output, not the uploaded name;
// callers must not assume the two match.
// POST /upload
func (s *server) handleUpload(c fiber.Ctx) error {
	if !s.requireAdmin(c) {
		return nil
	}

	// "media" is the current field name, "image" the legacy one from before
	// video support.
	file, err := c.FormFile("media")
	if err != nil {
		file, err = c.FormFile("image")
	}
	if err != nil {
		log.Printf("[upload] no media or image field in form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no file uploaded",
		})
	}

	storedName := sanitizeFilename(file.Filename)
	storedPath := filepath.Join(s.cfg.UploadDir, storedName)

	log.Printf("[upload] received %q (%d bytes, %s), storing as %s",
		file.Filename, file.Size, file.Header.Get("Content-Type"), storedName)

	if err := c.SaveFile(file, storedPath); err != nil {
		log.Printf("[upload] failed to store %s: %v", storedName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to store uploaded file",
		})
	}

	if kindFromContentType(file.Header.Get("Content-Type")) != kindVideo {
		s.assetStored(storedName, kindImage)
		return c.JSON(fiber.Map{
			"filename": storedName,
		})
	}

	// Video: transcode to the derived output name, then drop the original.
	base := strings.TrimSuffix(storedName, filepath.Ext(storedName))
	outputName := base + transcodedSuffix + ".mp4"
	outputPath := filepath.Join(s.cfg.UploadDir, outputName)

	if err := s.transcoder.transcode(c.Context(), storedPath, outputPath); err != nil {
		// The pre-transcode file stays on disk for operators to inspect or
		// retry; a cleanup policy is their call.
		log.Printf("[upload] transcode of %s failed: %v", storedName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "video compression failed: " + err.Error(),
		})
	}

	if err := os.Remove(storedPath); err != nil {
		log.Printf("[upload] failed to remove pre-transcode file %s: %v", storedName, err)
	}

	s.assetStored(outputName, kindVideo)
	log.Printf("[upload] video %s transcoded to %s", storedName, outputName)
	return c.JSON(fiber.Map{
		"filename": outputName,
	})
}

// assetStored runs the post-store side effects shared by both media kinds:
// gallery socket broadcast and the optional mirror copy. Neither can fail the
// upload response.
func (s *server) assetStored(name string, kind mediaKind) {
	s.hub.broadcastUpdate("added", name, kind)

	if s.mirror != nil {
		path := filepath.Join(s.cfg.UploadDir, name)
		go func() {
			if err := s.mirror.put(context.Background(), name, path); err != nil {
				log.Printf("[mirror] copy of %s failed: %v", name, err)
			}
		}()
	}
}
