package catalog

import "strings"

// ComposeAddress собирает адрес доставки: "{street}, {area}" и " ({references})".
func ComposeAddress(street, area, references string) string {
	addr := strings.TrimSpace(street) + ", " + strings.TrimSpace(area)
	if refs := strings.TrimSpace(references); refs != "" {
		addr += " (" + refs + ")"
	}
	return addr
}

// AreaOf выделяет район из свободного текста адреса: часть после первой запятой
// до следующей запятой или " (". Без запятой берется весь адрес до " (".
func AreaOf(address string) string {
	s := address
	if i := strings.Index(s, ","); i >= 0 {
		s = s[i+1:]
		if j := strings.Index(s, ","); j >= 0 {
			s = s[:j]
		}
	}
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
