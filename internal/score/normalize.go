package score

import "strings"

// NormalizeTitle maps a Wikipedia title to its comparison key:
// lower-cased, underscores as spaces, whitespace collapsed and trimmed.
// "SES_Astra" and "ses  astra" share the key "ses astra".
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	title = strings.ToLower(title)
	title = strings.ReplaceAll(title, "_", " ")
	return strings.Join(strings.Fields(title), " ")
}

// normalizedSet returns the distinct normalized keys of titles
func normalizedSet(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		set[NormalizeTitle(t)] = struct{}{}
	}
	return set
}
