package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Catalog is the ordered list of class names. Position is significant: index
// i names the i-th element of the model's output vector.
type Catalog []string

// LoadCatalog reads a label map from a JSON file. Two layouts are accepted:
// an ordered array (["Coccidiosis", ...]) or an index-keyed object
// ({"0": "Coccidiosis", ...}) as produced by common training exports.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: failed to read label map: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (Catalog, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return validateCatalog(list)
	}

	var indexed map[string]string
	if err := json.Unmarshal(data, &indexed); err != nil {
		return nil, fmt.Errorf("engine: label map is neither a JSON array nor an index-keyed object: %w", err)
	}

	list = make([]string, len(indexed))
	for k, v := range indexed {
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("engine: label map key %q is not an index", k)
		}
		if i < 0 || i >= len(indexed) {
			return nil, fmt.Errorf("engine: label map index %d out of range for %d labels", i, len(indexed))
		}
		if list[i] != "" {
			return nil, fmt.Errorf("engine: duplicate label map index %d", i)
		}
		list[i] = v
	}
	return validateCatalog(list)
}

func validateCatalog(list []string) (Catalog, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("engine: label map is empty")
	}
	seen := make(map[string]bool, len(list))
	for i, name := range list {
		if name == "" {
			return nil, fmt.Errorf("engine: label at index %d is empty", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("engine: duplicate label %q", name)
		}
		seen[name] = true
	}
	return Catalog(list), nil
}
