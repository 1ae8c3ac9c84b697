package workflowdef

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads every workflow document under paths. Directories are walked
// for .yaml and .yml files, and a file may hold several documents. Every
// document is validated.
func Load(paths []string) ([]Definition, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var defs []Definition
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			if err := filepath.WalkDir(p, func(path string, d os.DirEntry, walkErr error) error {
				if walkErr != nil {
					return walkErr
				}
				if d.IsDir() || !isYAML(path) {
					return nil
				}
				return appendDefinitions(path, &defs)
			}); err != nil {
				return nil, err
			}
			continue
		}
		if !isYAML(p) {
			return nil, errors.Errorf("%s is not a YAML file", p)
		}
		if err := appendDefinitions(p, &defs); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

func appendDefinitions(path string, defs *[]Definition) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var def Definition
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return errors.Wrap(err, path)
		}
		if isBlankDefinition(&def) {
			continue
		}
		if err := def.Validate(); err != nil {
			return errors.Wrap(err, path)
		}
		*defs = append(*defs, def)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isBlankDefinition(def *Definition) bool {
	return def.APIVersion == "" &&
		def.Kind == "" &&
		strings.TrimSpace(def.Metadata.Name) == "" &&
		len(def.Tasks) == 0
}
