package browser

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed stealth.js
var stealthTemplate string

const fingerprintPlaceholder = "__FINGERPRINT__"

func stealthScript(fp Fingerprint) (string, error) {
	data, err := json.Marshal(fp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fingerprint: %w", err)
	}
	return strings.Replace(stealthTemplate, fingerprintPlaceholder, string(data), 1), nil
}
