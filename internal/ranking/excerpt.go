package ranking

import "github.com/netslap-dev/netslap/shared/domain"

// AppendExcerpt is the excerpt window policy: keep the first `capacity`
// excerpts in acceptance order and drop everything after. It reports whether
// the excerpt was taken.
//
// Deliberately not a sliding "latest N" window — that is how the system has
// always behaved and stored previews depend on it. Swapping the policy means
// changing this function and the matching guard in the thread store, nothing
// else.
func AppendExcerpt(existing []domain.ReplyExcerpt, capacity int, e domain.ReplyExcerpt) ([]domain.ReplyExcerpt, bool) {
	if len(existing) >= capacity {
		return existing, false
	}
	return append(existing, e), true
}

// Excerpt truncates reply text to at most limit runes for preview storage.
// The snapshot is taken once, at acceptance; later edits or removals of the
// reply do not touch it.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
