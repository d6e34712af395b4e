package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName rejects empty names and names containing path
// separators or dots, so a name can never leave its asset directory or pick
// another extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
