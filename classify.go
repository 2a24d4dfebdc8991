package main

import (
	"path/filepath"
	"strings"
)

type mediaKind string

const (
	kindImage mediaKind = "image"
	kindVideo mediaKind = "video"
)

// Extension sets shared by the upload pipeline, the listing endpoint, and the
// gallery socket snapshot. Keeping them in one place means a file can never be
// classified one way at upload time and another way at listing time.
var (
	videoExts = map[string]bool{
		".mp4": true, ".webm": true, ".mov": true, ".avi": true, ".mkv": true,
	}
	imageExts = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".webp": true, ".bmp": true, ".svg": true,
	}
)

// kindFromContentType classifies by the declared content type. Anything that
// is not video/* counts as an image; the upload pipeline only branches on the
// video case.
func kindFromContentType(contentType string) mediaKind {
	if strings.HasPrefix(contentType, "video/") {
		return kindVideo
	}
	return kindImage
}

// kindFromName classifies a stored filename by extension. The second return
// is false for files that are not known media at all (those are hidden from
// listings).
func kindFromName(name string) (mediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if videoExts[ext] {
		return kindVideo, true
	}
	if imageExts[ext] {
		return kindImage, true
	}
	return kindImage, false
}
