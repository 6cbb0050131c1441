package catalog

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed seed.json
var seedCatalog []byte

// WriteSeed creates a starter catalog file at path from the embedded seed.
// Fails if a catalog already exists there.
func WriteSeed(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("catalog file already exists at %s", path)
	}

	if err := os.WriteFile(path, seedCatalog, 0644); err != nil {
		return fmt.Errorf("failed to write catalog seed: %w", err)
	}

	return nil
}
