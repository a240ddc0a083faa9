package domain

import "github.com/lib/pq"

type (
	UserId    = int64
	BoardId   = int64
	ThreadId  = int64
	ReplyId   = int64
	Username  = string
	BoardSlug = string

	// Privileges is the user's moderation capability list, stored as a
	// postgres text array.
	Privileges = pq.StringArray
)

// Privilege names. The set mirrors what moderation handlers check; unknown
// names in the column are ignored.
const (
	PrivCreateBoard  = "create_board"
	PrivDeleteBoard  = "delete_board"
	PrivEditBoard    = "edit_board"
	PrivCanPost      = "can_post"
	PrivCanReply     = "can_reply"
	PrivDeleteThread = "delete_thread"
	PrivKillReplies  = "kill_replies"
	PrivBanUser      = "ban_user"
	PrivAdminIssues  = "admin_issues"
)

// HasPrivileges reports whether every required privilege is present.
func HasPrivileges(have Privileges, required ...string) bool {
	for _, req := range required {
		found := false
		for _, p := range have {
			if p == req {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
