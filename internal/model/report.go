package model

// UserReport is the enriched per-user view joining identity, document
// count and entitlement state. It is synthesized fresh on every
// aggregation call and never persisted.
type UserReport struct {
	UserID         string `json:"userID"`
	Username       string `json:"username"`
	PostsCreated   int    `json:"postsCreated"`
	UserHasPremium bool   `json:"userHasPremium"`
}
