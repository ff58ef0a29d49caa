package model

// Vote records a member's single choice. The unique index on user_name
// enforces one vote per member across all cottages.
type Vote struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CottageID uint   `gorm:"not null;index" json:"cottage_id"`
	UserName  string `gorm:"type:varchar(100);not null;uniqueIndex" json:"user_name"`
	VotedAt   string `gorm:"type:varchar(19)" json:"voted_at"`

	Cottage Cottage `gorm:"foreignKey:CottageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Vote) TableName() string {
	return "votes"
}
