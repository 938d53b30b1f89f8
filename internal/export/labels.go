package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// LabelsConfig is the YAML file overriding spreadsheet column headers, keyed
// by column id
type LabelsConfig struct {
	Headers map[string]string `yaml:"headers"`
}

// LoadHeaderLabels reads header overrides from labelsFile. A relative path is
// resolved against the working directory.
func LoadHeaderLabels(labelsFile string) (map[string]string, error) {
	var labelsPath string
	if filepath.IsAbs(labelsFile) {
		labelsPath = labelsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		labelsPath = filepath.Join(wd, labelsFile)
	}

	data, err := os.ReadFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", labelsFile, err)
	}

	var config LabelsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", labelsFile, err)
	}

	for id, header := range config.Headers {
		if _, known := columnIndex(id); !known {
			return nil, fmt.Errorf("unknown column %q in %s", id, labelsFile)
		}
		if header == "" {
			return nil, fmt.Errorf("column %q has an empty header", id)
		}
	}

	return config.Headers, nil
}
