package model

// Rating scores a cottage 0 to 10. One row per member per cottage;
// re-rating overwrites the existing row.
type Rating struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CottageID uint   `gorm:"not null;index:idx_cottage_user_rating,unique" json:"cottage_id"`
	UserName  string `gorm:"type:varchar(100);not null;index:idx_cottage_user_rating,unique" json:"user_name"`
	Rating    int    `gorm:"not null" json:"rating"`
	RatedAt   string `gorm:"type:varchar(19)" json:"rated_at"`

	Cottage Cottage `gorm:"foreignKey:CottageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingStats aggregates the ratings for a cottage.
type RatingStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// SubmitRatingRequest is the payload for rating a cottage. Range
// checking stays in the service so out-of-range scores answer with the
// range code rather than a generic binding failure.
type SubmitRatingRequest struct {
	Rating int `json:"rating"`
}
