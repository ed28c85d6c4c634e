package archive

// Dedupe removes exact duplicate URLs, preserving first-seen order.
// Deduplication happens here, across all sitemaps, rather than in the
// parser: a URL listed by several sitemaps is captured once.
func Dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	deduped := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		deduped = append(deduped, u)
	}
	return deduped
}
