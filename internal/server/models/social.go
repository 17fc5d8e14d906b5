package models

import "time"

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	ReceiverID  string    `json:"receiverId"`
	Content     string    `json:"content"`
	ReferenceID *string   `json:"referenceItemId,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Conversation summarises the latest exchange with one counterpart.
type Conversation struct {
	OtherUserID   string   `json:"otherUserId"`
	OtherUsername string   `json:"otherUsername"`
	LastMessage   *Message `json:"lastMessage"`
	UnreadCount   int      `json:"unreadCount"`
}

// Notification types.
const (
	NotificationMessage     = "message"
	NotificationFollow      = "follow"
	NotificationComment     = "comment"
	NotificationBadge       = "badge"
	NotificationMarketplace = "marketplace"
	NotificationSystem      = "system"
)

type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	ReferenceID *string   `json:"referenceId,omitempty"`
	ActorID     *string   `json:"actorId,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Follow struct {
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowStats counts both directions of a profile's follow graph.
type FollowStats struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

type Badge struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	ThresholdPoints int    `json:"thresholdPoints"`
	IconURL         string `json:"iconUrl,omitempty"`
}

type UserBadge struct {
	Badge
	AwardedAt time.Time `json:"awardedAt"`
}
