package domain

import "time"

// SubReply is nested one level under a Reply. It carries a To snapshot so a
// flat list still shows who was being answered.
type SubReply struct {
	Id        ReplyId   `json:"id"`
	Poster    Poster    `json:"poster"`
	To        Poster    `json:"to"`
	Text      string    `json:"text"`
	Media     *Media    `json:"media,omitempty"`
	Removed   bool      `json:"removed"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is a top-level reply to a thread. ReplyCount counts its sub-replies,
// not thread replies; the thread keeps its own counter.
type Reply struct {
	Id         ReplyId    `json:"id"`
	Thread     ThreadId   `json:"thread"`
	Poster     Poster     `json:"poster"`
	Text       string     `json:"text"`
	Media      *Media     `json:"media,omitempty"`
	Removed    bool       `json:"removed"`
	ReplyCount int64      `json:"reply_count"`
	SubReplies []SubReply `json:"replies,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type ReplyCreationData struct {
	Thread ThreadId
	Poster Poster
	Text   string
	Media  *Media
}

type SubReplyCreationData struct {
	Reply  ReplyId
	Poster Poster
	To     Poster
	Text   string
	Media  *Media
}
