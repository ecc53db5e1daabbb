package storage

import (
	"path"
	"strconv"
	"strings"
	"time"
)

// uploadKey derives a storage key from the original file name:
// {name-without-ext}-{unix-millis}{ext}.
// Uniqueness relies on the timestamp; two uploads of the same name within
// one millisecond get the same key.
func uploadKey(originalName string, now time.Time) string {
	name, ext := splitName(originalName)
	return name + "-" + strconv.FormatInt(now.UnixMilli(), 10) + ext
}

// streamKey builds the key for streamed uploads: {name}.{ext}.
func streamKey(name, ext string) string {
	return name + "." + ext
}

// splitName returns the base name of a file without its directory,
// split into name and extension. A leading dot does not start an
// extension, so ".env" has no extension.
func splitName(originalName string) (string, string) {
	originalName = strings.ReplaceAll(originalName, "\\", "/")
	originalName = strings.TrimRight(originalName, "/")
	if originalName == "" {
		return "", ""
	}

	base := path.Base(originalName)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return base, ""
	}
	return base[:idx], base[idx:]
}

// publicObjectURL joins the public base URL and a key.
func publicObjectURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}

// endpointObjectURL builds the path-style object URL on the API endpoint.
func endpointObjectURL(endpoint, bucket, key string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/" + key
}
