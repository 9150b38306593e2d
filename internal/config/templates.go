package config

import (
	"fmt"
	"os"
)

func Template() string {
	return serviceTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(serviceTemplate), 0o600)
}

const serviceTemplate = `# runecheck service config
id = "runecheck"
addr = ":9300"

# request bodies above this size are rejected with 413
max_body_bytes = 1048576

cors_origins = ["http://localhost:3000"]
log_level = "info"
metrics_enabled = true

# codepoints | text | spans
render = "codepoints"
`
