package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StakeStatus is the lifecycle state of a stake.
//
// pending → accepted | rejected | expired
// rejected | expired → pending (explicit reopen)
//
// accepted is final; no transition ever leaves it.
type StakeStatus string

const (
	StakePending  StakeStatus = "pending"
	StakeAccepted StakeStatus = "accepted"
	StakeRejected StakeStatus = "rejected"
	StakeExpired  StakeStatus = "expired"
)

// Terminal reports whether s is a settled (non-pending) state.
func (s StakeStatus) Terminal() bool {
	return s == StakeAccepted || s == StakeRejected || s == StakeExpired
}

// Valid reports whether s is one of the known statuses.
func (s StakeStatus) Valid() bool {
	switch s {
	case StakePending, StakeAccepted, StakeRejected, StakeExpired:
		return true
	}
	return false
}

// Stake is a contributor's coin commitment against an issue. Stakes are
// never deleted; settled stakes remain as an audit trail.
//
// IssueXP snapshots the issue's XP reward at stake time so webhook
// settlement can compute the XP gain without refetching the issue.
type Stake struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	IssueID     int                `bson:"issue_id" json:"issueId"`
	Repository  string             `bson:"repository" json:"repository"`
	Amount      int                `bson:"amount" json:"amount"`
	PRURL       string             `bson:"pr_url" json:"prUrl"`
	Status      StakeStatus        `bson:"status" json:"status"`
	IssueXP     int                `bson:"issue_xp" json:"issueXP"`
	XPEarned    *int               `bson:"xp_earned,omitempty" json:"xpEarned,omitempty"`
	CoinsEarned *int               `bson:"coins_earned,omitempty" json:"coinsEarned,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
