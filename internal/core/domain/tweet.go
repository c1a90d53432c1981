package domain

import "time"

// TweetAudience controls who may read a tweet.
type TweetAudience int

const (
	AudienceEveryone TweetAudience = iota
	AudienceRestrictedCircle
)

// TweetType distinguishes original tweets from derived ones.
type TweetType int

const (
	TypeTweet TweetType = iota
	TypeRetweet
	TypeComment
	TypeQuoteTweet
)

// Tweet is the readable content unit. Visibility of a RestrictedCircle tweet
// is decided against the author's circle membership at read time, not at
// post time.
type Tweet struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Type       TweetType     `json:"type"`
	Audience   TweetAudience `json:"audience"`
	Content    string        `json:"content"`
	ParentID   string        `json:"parent_id,omitempty"`
	GuestViews int64         `json:"guest_views"`
	UserViews  int64         `json:"user_views"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
