package lookup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glftpd/glspy/internal/errors"
)

// Files looks up sizes of files the daemon serves. Paths in the online table
// are relative to the chroot, so a path is tried as given and then below
// Root.
type Files struct {
	Root string
}

// Size returns the size of path in bytes.
func (f Files) Size(path string) (uint64, error) {
	candidates := []string{path}
	if f.Root != "" {
		candidates = append(candidates, filepath.Join(f.Root, path))
	}

	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return uint64(info.Size()), nil
	}
	return 0, errors.New(errors.ErrLookup,
		fmt.Sprintf("Size of %s is unknown", path),
		"The file may have been moved or deleted")
}
