package server

import "path/filepath"

const fallbackContentType = "text/plain"

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// contentTypeFor matches the extension exactly; ".HTML" is served as text/plain.
func contentTypeFor(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}

	return fallbackContentType
}
