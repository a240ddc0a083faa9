package domain

import "time"

// RescoreFunc recomputes a thread's decay score from its post-increment
// reply count and creation time. The thread service supplies it so the
// storage layer stays free of ranking policy.
type RescoreFunc func(replyCount int64, createdAt time.Time) float64

// AcceptedReply reports what the reply-acceptance transaction did.
type AcceptedReply struct {
	ReplyCount   int64
	DecayScore   float64
	ExcerptTaken bool
}

// ThreadListFilter selects which listing variant to produce. Board nil means
// all boards; OrderByHot false orders by created_at instead of decay_score.
type ThreadListFilter struct {
	Board      *BoardId
	Alive      bool
	OrderByHot bool
	Limit      int
}
