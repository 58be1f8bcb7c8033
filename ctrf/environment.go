package ctrf

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// ParseEnvironment turns KEY=value strings into a map. Values are split on
// the first '='; later duplicates win. Entries without '=' are skipped.
func ParseEnvironment(props []string, log logrus.FieldLogger) map[string]string {
	env := make(map[string]string, len(props))
	for _, prop := range props {
		key, value, found := strings.Cut(prop, "=")
		if !found || key == "" {
			if log != nil {
				log.WithField("Property", prop).Warn("Ignoring environment property without KEY=value form")
			}
			continue
		}
		env[key] = value
	}
	return env
}

// LoadEnvironmentFile reads a dotenv style file and merges it under the
// given properties, which take precedence.
func LoadEnvironmentFile(path string, props map[string]string) (map[string]string, error) {
	fromFile, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}
	merged := make(map[string]string, len(fromFile)+len(props))
	for k, v := range fromFile {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return merged, nil
}
