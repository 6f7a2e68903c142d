package schema

import "strings"

// GoName converts a definition name like "maxLinkSpeed" to the exported Go
// identifier "MaxLinkSpeed".
func GoName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// FileName converts a definition name like "linkControl" to "link_control".
func FileName(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
