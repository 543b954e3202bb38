package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ally/internal/errors"
	"ally/internal/models"
	"ally/internal/services"
)

// VideoTipHandler handles curated video tip requests, both the public
// listing and the admin management endpoints.
type VideoTipHandler struct {
	tipService services.VideoTipServicer
}

// NewVideoTipHandler creates a new VideoTipHandler
func NewVideoTipHandler(tipService services.VideoTipServicer) *VideoTipHandler {
	return &VideoTipHandler{tipService: tipService}
}

// VideoTipRequest represents the tip create/update payload
type VideoTipRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	VideoURL    string `json:"videoUrl" binding:"required,url"`
	Category    string `json:"category" binding:"required,video_category"`
}

// VideoTipResponse represents a video tip in API responses
type VideoTipResponse struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Category     string `json:"category"`
	IsActive     bool   `json:"isActive"`
}

func newVideoTipResponse(t *models.VideoTip) VideoTipResponse {
	return VideoTipResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		VideoURL:     t.VideoURL,
		ThumbnailURL: t.ThumbnailURL,
		Category:     t.Category,
		IsActive:     t.IsActive,
	}
}

func videoTipList(tips []models.VideoTip) []VideoTipResponse {
	resp := make([]VideoTipResponse, 0, len(tips))
	for i := range tips {
		resp = append(resp, newVideoTipResponse(&tips[i]))
	}
	return resp
}

// ListActive returns active tips for students
// @Summary     List video tips
// @Description Get active curated video tips, newest first
// @Tags        video-tips
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} VideoTipResponse "Active video tips"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /video-tips [get]
func (h *VideoTipHandler) ListActive(c *gin.Context) {
	tips, err := h.tipService.GetActiveTips()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": videoTipList(tips)})
}

// ListAll returns every tip for the admin view
// @Summary     List all video tips (admin)
// @Description Get all video tips including inactive ones
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} VideoTipResponse "All video tips"
// @Failure     403 {object} ErrorResponse "Admin required"
// @Router      /admin/video-tips [get]
func (h *VideoTipHandler) ListAll(c *gin.Context) {
	tips, err := h.tipService.GetAllTips()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": videoTipList(tips)})
}

// Create stores a new video tip
// @Summary     Create video tip (admin)
// @Description Add a curated video tip; YouTube URLs are normalized to embed form
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VideoTipRequest true "Video tip data"
// @Success     201 {object} VideoTipResponse "Created tip"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin required"
// @Router      /admin/video-tips [post]
func (h *VideoTipHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VideoTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tip, err := h.tipService.CreateTip(userID, req.Title, req.Description, req.VideoURL, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tip": newVideoTipResponse(tip)})
}

// Update edits a video tip
// @Summary     Update video tip (admin)
// @Description Replace a video tip's editable fields
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Tip ID"
// @Param       request body VideoTipRequest true "Video tip data"
// @Success     200 {object} VideoTipResponse "Updated tip"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Tip not found"
// @Router      /admin/video-tips/{id} [put]
func (h *VideoTipHandler) Update(c *gin.Context) {
	tipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VideoTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tip, err := h.tipService.UpdateTip(tipID, req.Title, req.Description, req.VideoURL, req.Category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tip": newVideoTipResponse(tip)})
}

// Delete removes a video tip
// @Summary     Delete video tip (admin)
// @Description Delete a curated video tip
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Tip ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     404 {object} ErrorResponse "Tip not found"
// @Router      /admin/video-tips/{id} [delete]
func (h *VideoTipHandler) Delete(c *gin.Context) {
	tipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.tipService.DeleteTip(tipID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
