package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. Only contributors stake coins and
// receive the monthly refill.
const (
	RoleContributor = "contributor"
	RoleMaintainer  = "maintainer"
	RoleCompany     = "company"
)

// User is a platform account. Coins and XP are mutated by staking,
// settlement and the monthly refill; Rank is always derived from XP and
// rewritten on every XP mutation.
type User struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                  string             `bson:"email" json:"email"`
	Role                   string             `bson:"role" json:"role"`
	GithubUsername         string             `bson:"github_username,omitempty" json:"githubUsername,omitempty"`
	Coins                  int                `bson:"coins" json:"coins"`
	XP                     int                `bson:"xp" json:"xp"`
	Rank                   string             `bson:"rank" json:"rank"`
	MonthlyCoinsLastRefill time.Time          `bson:"monthly_coins_last_refill,omitempty" json:"monthlyCoinsLastRefill,omitempty"`
}
