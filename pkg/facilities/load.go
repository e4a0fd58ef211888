package facilities

import (
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/swimto/poolsync/pkg/errors"
)

// Load reads a facility catalog from a YAML file on disk.
func Load(path string) (Facilities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return unmarshal(data, path)
}

// LoadFS reads a facility catalog from a YAML file in the given filesystem.
func LoadFS(fsys fs.FS, name string) (Facilities, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	return unmarshal(data, name)
}

func unmarshal(data []byte, source string) (Facilities, error) {
	var facs Facilities
	if err := yaml.Unmarshal(data, &facs); err != nil {
		return nil, errors.WrapParse("yaml", source, err)
	}

	for i, fac := range facs {
		if fac.ID == "" {
			return nil, errors.NewValidationError("facility_id", i, "missing facility_id in catalog entry")
		}
		if fac.Name == "" {
			return nil, errors.NewValidationError("name", fac.ID, "facility has no name")
		}
	}
	return facs, nil
}
