package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// SanitizeFileName makes name safe as a single path component. Separators,
// colons and asterisks become dashes; other unsafe characters are dropped.
// Names that reduce to "." or ".." come back empty.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	if name == "." || name == ".." {
		return ""
	}
	return name
}
