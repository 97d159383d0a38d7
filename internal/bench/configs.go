package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"studyrag/internal/config"
)

// configFile is the on-disk benchmark matrix:
//
//	configs:
//	  - mode: qwen-7b
//	    rag: true
//	    grounded: true
type configFile struct {
	Configs []Config `yaml:"configs"`
}

// LoadConfigs reads a benchmark matrix from a YAML file. Unknown mode
// aliases fail early so a typo does not surface mid-benchmark.
func LoadConfigs(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark config: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse benchmark config: %w", err)
	}
	if len(file.Configs) == 0 {
		return nil, fmt.Errorf("no configs found in %s", path)
	}

	for _, c := range file.Configs {
		if _, err := config.ResolveMode(c.Mode); err != nil {
			return nil, fmt.Errorf("benchmark config: %w", err)
		}
	}
	return file.Configs, nil
}
