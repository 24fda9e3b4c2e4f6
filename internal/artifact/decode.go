package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// decode reads artifact name from src into out, choosing the format by extension
func decode(ctx context.Context, src Source, name string, out any) error {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".json":
		err = json.NewDecoder(rc).Decode(out)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(rc).Decode(out)
	default:
		return fmt.Errorf("unsupported artifact format %q for %s (want .json, .yaml or .yml)", ext, name)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
