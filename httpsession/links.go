package httpsession

import (
	"regexp"
	"strings"
)

// HeaderField is one response header line as received.
type HeaderField struct {
	Name  string
	Value string
}

var (
	linkTargetPattern = regexp.MustCompile(`^\s*<([^>]*)>\s*`)
	linkRelPattern    = regexp.MustCompile(`^\s*rel\s*=\s*"?(.*?)"?\s*$`)
)

// ParseLinks collects the targets of every link header keyed by relation
// type. Later occurrences of a relation overwrite earlier ones; malformed
// segments are skipped.
func ParseLinks(headers []HeaderField) map[string]string {
	links := make(map[string]string)
	for _, field := range headers {
		if !strings.EqualFold(field.Name, "link") {
			continue
		}
		for _, value := range SplitHeaderValues(field.Value, ",") {
			parts := SplitHeaderValues(value, ";")
			target := linkTargetPattern.FindStringSubmatch(parts[0])
			if target == nil {
				continue
			}
			for _, param := range parts[1:] {
				if rel := linkRelPattern.FindStringSubmatch(param); rel != nil {
					links[rel[1]] = target[1]
				}
			}
		}
	}
	return links
}
