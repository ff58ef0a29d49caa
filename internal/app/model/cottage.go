package model

// Cottage is a holiday cottage proposed to the group.
type Cottage struct {
	ID uint `gorm:"primarykey" json:"id"`

	// Listing details
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Location    string `gorm:"type:varchar(200)" json:"location"`
	Price       string `gorm:"type:varchar(50)" json:"price"`
	Beds        int    `gorm:"default:0" json:"beds"`
	DogsAllowed bool   `gorm:"default:false" json:"dogs_allowed"`
	Image       string `gorm:"type:text" json:"image"`
	URL         string `gorm:"type:text" json:"url"`
	Description string `gorm:"type:text" json:"description"`

	// SubmittedBy records the member who proposed it and anchors the
	// ownership checks.
	SubmittedBy string `gorm:"type:varchar(100);not null;index" json:"submitted_by"`

	// Amenities
	HotTub       bool `gorm:"default:false" json:"hottub"`
	SecureGarden bool `gorm:"default:false" json:"secure_garden"`
	EVCharging   bool `gorm:"default:false" json:"ev_charging"`
	Parking      bool `gorm:"default:false" json:"parking"`
	LogBurner    bool `gorm:"default:false" json:"log_burner"`
	HighChair    bool `gorm:"default:false" json:"high_chair"`
	Cot          bool `gorm:"default:false" json:"cot"`

	// Votes is a denormalized counter, co-updated in the same
	// transaction as the votes table.
	Votes int `gorm:"default:0" json:"votes"`

	// AIReviewSummary caches the generated summary; empty until an
	// admin requests one.
	AIReviewSummary string `gorm:"type:text" json:"ai_review_summary,omitempty"`

	Comments []Comment `gorm:"foreignKey:CottageID" json:"comments,omitempty"`
}

func (Cottage) TableName() string {
	return "cottages"
}

// CreateCottageRequest is the payload for proposing a cottage.
type CreateCottageRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Location    string `json:"location" binding:"max=200"`
	Price       string `json:"price" binding:"max=50"`
	Beds        int    `json:"beds" binding:"min=0"`
	DogsAllowed bool   `json:"dogs_allowed"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Description string `json:"description"`

	HotTub       bool `json:"hottub"`
	SecureGarden bool `json:"secure_garden"`
	EVCharging   bool `json:"ev_charging"`
	Parking      bool `json:"parking"`
	LogBurner    bool `json:"log_burner"`
	HighChair    bool `json:"high_chair"`
	Cot          bool `json:"cot"`
}

// UpdateCottageRequest is the payload for editing a cottage. Pointer
// fields distinguish "leave unchanged" from "set to zero value".
type UpdateCottageRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Location    *string `json:"location,omitempty" binding:"omitempty,max=200"`
	Price       *string `json:"price,omitempty" binding:"omitempty,max=50"`
	Beds        *int    `json:"beds,omitempty" binding:"omitempty,min=0"`
	DogsAllowed *bool   `json:"dogs_allowed,omitempty"`
	Image       *string `json:"image,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`

	HotTub       *bool `json:"hottub,omitempty"`
	SecureGarden *bool `json:"secure_garden,omitempty"`
	EVCharging   *bool `json:"ev_charging,omitempty"`
	Parking      *bool `json:"parking,omitempty"`
	LogBurner    *bool `json:"log_burner,omitempty"`
	HighChair    *bool `json:"high_chair,omitempty"`
	Cot          *bool `json:"cot,omitempty"`
}

// CottageListQuery selects ordering for the listing endpoints.
type CottageListQuery struct {
	Sort string `form:"sort" binding:"omitempty,oneof=votes name"`
}
