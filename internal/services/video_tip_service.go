package services

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/models"
)

// videoTipService handles curated video tip business logic.
type videoTipService struct {
	db *gorm.DB
}

// NewVideoTipService creates a new VideoTipServicer.
func NewVideoTipService(db *gorm.DB) VideoTipServicer {
	return &videoTipService{db: db}
}

var youtubeIDRegex = regexp.MustCompile(`(?:youtube\.com/(?:embed/|watch\?v=)|youtu\.be/)([^&\s]+)`)

// processYouTubeURL normalizes a YouTube watch/share URL into an embed URL
// and a thumbnail URL. Non-YouTube URLs are passed through with an empty
// thumbnail.
func processYouTubeURL(videoURL string) (embedURL, thumbnailURL string) {
	match := youtubeIDRegex.FindStringSubmatch(videoURL)
	if match == nil {
		return videoURL, ""
	}
	videoID := match[1]
	return fmt.Sprintf("https://www.youtube.com/embed/%s", videoID),
		fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}

// GetActiveTips returns active video tips for the public listing, newest
// first.
func (s *videoTipService) GetActiveTips() ([]models.VideoTip, error) {
	var tips []models.VideoTip
	err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&tips).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tips, nil
}

// GetAllTips returns all video tips for the admin listing, newest first.
func (s *videoTipService) GetAllTips() ([]models.VideoTip, error) {
	var tips []models.VideoTip
	err := s.db.Order("created_at DESC").Find(&tips).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tips, nil
}

// CreateTip stores a new video tip with a normalized embed URL.
func (s *videoTipService) CreateTip(createdBy uint, title, description, videoURL, category string) (*models.VideoTip, error) {
	embedURL, thumbnailURL := processYouTubeURL(videoURL)

	tip := &models.VideoTip{
		Title:        title,
		Description:  description,
		VideoURL:     embedURL,
		ThumbnailURL: thumbnailURL,
		Category:     category,
		CreatedBy:    createdBy,
		IsActive:     true,
	}

	if err := s.db.Create(tip).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tip, nil
}

// UpdateTip replaces a video tip's editable fields.
func (s *videoTipService) UpdateTip(tipID uint, title, description, videoURL, category string) (*models.VideoTip, error) {
	var tip models.VideoTip
	if err := s.db.First(&tip, tipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoTipNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	embedURL, thumbnailURL := processYouTubeURL(videoURL)
	err := s.db.Model(&tip).Updates(map[string]interface{}{
		"title":         title,
		"description":   description,
		"video_url":     embedURL,
		"thumbnail_url": thumbnailURL,
		"category":      category,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tip, nil
}

// DeleteTip removes a video tip.
func (s *videoTipService) DeleteTip(tipID uint) error {
	result := s.db.Delete(&models.VideoTip{}, tipID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrVideoTipNotFound
	}
	return nil
}
