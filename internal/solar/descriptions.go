package solar

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NoDescription is shown when a body has no description entry.
const NoDescription = "No description available."

//go:embed descriptions.yaml
var descriptionsYAML []byte

// Descriptions maps body name to descriptive text. Read-only after load.
type Descriptions map[string]string

type descriptionFile struct {
	Bodies []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"bodies"`
}

// ParseDescriptions decodes a YAML description table.
func ParseDescriptions(data []byte) (Descriptions, error) {
	var f descriptionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse descriptions: %w", err)
	}

	d := make(Descriptions, len(f.Bodies))
	for _, b := range f.Bodies {
		if b.Name == "" {
			return nil, fmt.Errorf("parse descriptions: entry without name")
		}
		d[b.Name] = b.Description
	}
	return d, nil
}

// DefaultDescriptions returns the embedded description table.
func DefaultDescriptions() (Descriptions, error) {
	return ParseDescriptions(descriptionsYAML)
}

// Lookup returns the description for name, or NoDescription.
func (d Descriptions) Lookup(name string) string {
	if text, ok := d[name]; ok && text != "" {
		return text
	}
	return NoDescription
}

// Has reports whether name has a non-empty entry.
func (d Descriptions) Has(name string) bool {
	return d[name] != ""
}
