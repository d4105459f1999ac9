package validators

import "regexp"

var folderRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidFolder reports whether name is a safe upload folder.
func ValidFolder(name string) bool {
	return len(name) <= 64 && folderRe.MatchString(name)
}
