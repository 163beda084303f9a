package browser

import (
	"fmt"
	"strings"

	"studiopush/internal/uploader"
)

// selector turns a locator into a CSS selector usable both at document level
// and scoped to a parent node.
func selector(loc uploader.Locator) (string, error) {
	if loc.Value == "" {
		return "", fmt.Errorf("empty %s locator", loc.By)
	}
	switch loc.By {
	case uploader.ByID:
		return attrSelector("id", loc.Value), nil
	case uploader.ByName:
		return attrSelector("name", loc.Value), nil
	case uploader.ByCSS:
		return loc.Value, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %s", loc.By)
	}
}

// attrSelector matches every element carrying the attribute, including the
// repeated ids the studio page uses.
func attrSelector(attr, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return fmt.Sprintf(`[%s="%s"]`, attr, escaped)
}
