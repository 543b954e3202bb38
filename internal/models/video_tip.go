package models

// VideoTip is an educational video curated by admins and shown to all users.
// VideoURL stores the normalized YouTube embed URL.
type VideoTip struct {
	Base
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	VideoURL     string `gorm:"not null" json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Category     string `gorm:"not null" json:"category"`
	CreatedBy    uint   `json:"created_by"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}
