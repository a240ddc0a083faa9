package domain

import "time"

// RequestParty identifies one side of a social-access request.
type RequestParty struct {
	Id        UserId `json:"id"`
	Username  string `json:"username"`
	Thumbnail string `json:"thumbnail_pic"`
}

// Request is a social-access (friend) request. Responded flips exactly once;
// HasAccess records the answer.
type Request struct {
	Id          int64        `json:"id"`
	To          RequestParty `json:"to"`
	RequestedBy RequestParty `json:"requested_by"`
	Responded   bool         `json:"responded"`
	HasAccess   bool         `json:"has_access"`
	Requested   time.Time    `json:"date_requested"`
}
