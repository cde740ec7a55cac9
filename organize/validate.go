package organize

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nrtkbb/fsorg/models"
)

var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidName rejects names that cannot be used for a directory or file on
// every supported platform.
func ValidName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: empty name", models.ErrInvalidInput)
	case trimmed == "." || trimmed == "..":
		return fmt.Errorf("%w: %q is not a name", models.ErrInvalidInput, name)
	case strings.ContainsAny(trimmed, `<>:"/\|?*`):
		return fmt.Errorf("%w: %q contains invalid characters", models.ErrInvalidInput, name)
	case reservedNames[strings.ToUpper(strings.TrimSuffix(trimmed, filepath.Ext(trimmed)))]:
		return fmt.Errorf("%w: %q is a reserved name", models.ErrInvalidInput, name)
	}
	return nil
}
