package core

import (
	"fmt"
	"strings"
)

// ValidateRoutePath checks a generated route before it is registered. A route
// ending in "/" is the index of its directory and is valid.
func ValidateRoutePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with /")
	}

	if strings.Contains(path, "?") {
		return fmt.Errorf("path cannot contain query string")
	}

	if strings.Contains(path, "#") {
		return fmt.Errorf("path cannot contain fragment")
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("path cannot contain parent directory references")
	}

	if strings.Contains(path, "*") {
		return fmt.Errorf("path cannot contain wildcards")
	}

	if strings.Contains(path, "//") {
		return fmt.Errorf("path cannot contain empty segments")
	}

	return nil
}
