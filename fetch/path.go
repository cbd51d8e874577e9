package fetch

import (
	"path/filepath"
	"strings"

	"ocm.software/datapackage/blob/filesystem"
)

// ResolvePath joins p onto basePath.
//
// If basePath is empty or p is absolute, p is returned unchanged. The result is not cleaned,
// so that a URL base such as "https://example.com/pkg" yields "https://example.com/pkg/data.csv".
func ResolvePath(basePath, p string) string {
	if basePath == "" || p == "" || isAbs(p) {
		return p
	}
	if strings.HasSuffix(basePath, "/") || strings.HasSuffix(basePath, string(filepath.Separator)) {
		return basePath + p
	}
	return basePath + "/" + p
}

// LocalPath resolves p against basePath and returns the result
// only if it currently names an existing regular file.
func LocalPath(basePath, p string) (string, bool) {
	if p == "" {
		return "", false
	}
	resolved := ResolvePath(basePath, p)
	if !filesystem.IsRegularFile(resolved) {
		return "", false
	}
	return resolved, true
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") || filepath.IsAbs(p)
}
