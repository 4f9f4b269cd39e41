package models

import "time"

// PostPreviewLen is the number of characters of the text shown by Post.String.
const PostPreviewLen = 15

// Post is a text entry owned by exactly one author and optionally filed under a group.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"pub_date"`
	UpdatedAt time.Time `json:"updated_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// String returns the first PostPreviewLen characters of the text.
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > PostPreviewLen {
		return string(runes[:PostPreviewLen])
	}
	return p.Text
}

// IsAuthoredBy reports whether userID owns the post.
func (p Post) IsAuthoredBy(userID uint) bool {
	return userID != 0 && p.AuthorID == userID
}

// InGroup reports whether the post is filed under groupID.
func (p Post) InGroup(groupID uint) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}
