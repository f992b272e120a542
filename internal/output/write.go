// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package output

import (
	"fmt"
	"os"
	"path/filepath"

	"rumpus/internal/simulate"
)

// WriteFile encodes img into path, creating or replacing it. The data goes to
// a temporary file next to path first and is renamed into place once complete,
// so a failed write leaves any previous file untouched.
func WriteFile(path string, img *simulate.Image, f Format, ch Channel) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, img, f, ch); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
