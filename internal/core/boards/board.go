package boards

import (
	"time"
)

// Board is an ordered collection of saved posts owned by a user.
// The owner identity comes from the upstream auth layer; this engine only
// stores it as an opaque string.
type Board struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Name      string    `json:"name" db:"name"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	ID        int64     `json:"id" db:"id"`
}

// BoardPost is the join row attaching a post to a board.
// Uniqueness is on (BoardID, PostID): adding an already-present post is a
// domain-level "already saved" condition, never a state-corrupting error.
type BoardPost struct {
	AddedAt time.Time `json:"addedAt" db:"added_at"`
	BoardID int64     `json:"boardId" db:"board_id"`
	PostID  int64     `json:"postId" db:"post_id"`
}
