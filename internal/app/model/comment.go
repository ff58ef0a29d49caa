package model

// Comment is a remark left on a cottage by a group member.
type Comment struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CottageID uint   `gorm:"not null;index" json:"cottage_id"`
	Author    string `gorm:"type:varchar(100);not null" json:"author"`
	Text      string `gorm:"type:text;not null" json:"text"`
	CreatedAt string `gorm:"type:varchar(19)" json:"created_at"`

	Cottage Cottage `gorm:"foreignKey:CottageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CreateCommentRequest is the payload for posting a comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// UpdateCommentRequest is the payload for editing a comment.
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}
