package domain

import "time"

// Poster is a denormalized snapshot of the posting identity taken at post
// time. It is never refreshed, so renames and avatar changes do not leak
// into old posts.
type Poster struct {
	Id        UserId `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Anon      bool   `json:"anon"`
}

// ReplyExcerpt is an immutable preview of a reply embedded in its thread for
// list views. The window holds at most Config.ExcerptsPerThread of these.
type ReplyExcerpt struct {
	ReplyId         ReplyId `json:"reply_id"`
	PosterName      string  `json:"poster_name"`
	PosterId        UserId  `json:"poster_id"`
	PosterThumbnail string  `json:"poster_thumbnail"`
	TextExcerpt     string  `json:"text_excerpt"`
}

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board  BoardId
	Poster Poster
	Title  string
	Text   string
	Media  *Media
}

// Thread ranking state is owned by the reply-acceptance path: ReplyCount and
// DecayScore only ever change together inside a single storage transaction.
type Thread struct {
	Id         ThreadId       `json:"id"`
	Board      BoardId        `json:"board"`
	Poster     Poster         `json:"poster"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Media      *Media         `json:"media,omitempty"`
	Excerpts   []ReplyExcerpt `json:"reply_excerpts"`
	Alive      bool           `json:"alive"`
	DecayScore float64        `json:"thread_decay"`
	ReplyCount int64          `json:"reply_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ThreadSummary is the list-view projection (hot/new listings): no body
// beyond the stored excerpt previews.
type ThreadSummary struct {
	Id         ThreadId       `json:"id"`
	Board      BoardId        `json:"board"`
	Poster     Poster         `json:"poster"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Media      *Media         `json:"media,omitempty"`
	Excerpts   []ReplyExcerpt `json:"reply_excerpts"`
	DecayScore float64        `json:"thread_decay"`
	ReplyCount int64          `json:"reply_count"`
	CreatedAt  time.Time      `json:"created_at"`
}
