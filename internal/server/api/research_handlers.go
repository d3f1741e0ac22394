package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/submissions"
	"github.com/Dr-Stone27/Researchub/internal/server/repositories/tags"
	"github.com/Dr-Stone27/Researchub/internal/server/services"
)

// ResearchHandler exposes research submissions and the library view.
type ResearchHandler struct {
	research *services.ResearchService
}

func NewResearchHandler(research *services.ResearchService) *ResearchHandler {
	return &ResearchHandler{research: research}
}

// SubmissionRequest represents a new research submission
type SubmissionRequest struct {
	Title      string `json:"title" binding:"required"`
	Abstract   string `json:"abstract" binding:"required"`
	Supervisor string `json:"supervisor"`
	Year       int    `json:"year" binding:"required"`
}

// Create registers submission metadata and presigns the document upload
// POST /api/research
func (h *ResearchHandler) Create(c *gin.Context) {
	var req SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	account := CurrentAccount(c)
	submission, uploadURL, err := h.research.Create(c.Request.Context(), account.ID, services.SubmissionInput{
		Title:      req.Title,
		Abstract:   req.Abstract,
		Supervisor: req.Supervisor,
		Year:       req.Year,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"submission": submission,
		"upload_url": uploadURL,
	})
}

// ListMine lists the caller's submissions
// GET /api/research
func (h *ResearchHandler) ListMine(c *gin.Context) {
	account := CurrentAccount(c)
	list, err := h.research.ListMine(c.Request.Context(), account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"submissions": list})
}

// Get returns one submission
// GET /api/research/:id
func (h *ResearchHandler) Get(c *gin.Context) {
	account := CurrentAccount(c)
	submission, err := h.research.Get(c.Request.Context(), c.Param("id"), account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"submission": submission})
}

// Download presigns a GET for the submission document
// GET /api/research/:id/download
func (h *ResearchHandler) Download(c *gin.Context) {
	account := CurrentAccount(c)
	url, err := h.research.GetDownloadURL(c.Request.Context(), c.Param("id"), account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"download_url": url})
}

// Delete removes the caller's own submission
// DELETE /api/research/:id
func (h *ResearchHandler) Delete(c *gin.Context) {
	account := CurrentAccount(c)
	if err := h.research.Delete(c.Request.Context(), c.Param("id"), account.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Submission deleted"})
}

// Library lists approved submissions with optional filters
// GET /api/library?year=&department=&q=
func (h *ResearchHandler) Library(c *gin.Context) {
	filter := submissions.LibraryFilter{
		Department: c.Query("department"),
		Query:      c.Query("q"),
	}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", "year must be a number")
			return
		}
		filter.Year = year
	}

	list, err := h.research.BrowseLibrary(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"submissions": list})
}

// CatalogHandler exposes tags, notifications, and resources.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListTags lists the approved tag catalog
// GET /api/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	list, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"tags": list})
}

// SuggestTag records a pending tag suggestion
// POST /api/tags
func (h *CatalogHandler) SuggestTag(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	account := CurrentAccount(c)
	tag, err := h.catalog.SuggestTag(c.Request.Context(), account.ID, req.Name, req.Category)
	if err != nil {
		if errors.Is(err, tags.ErrDuplicateTag) {
			RespondError(c, http.StatusConflict, "duplicate_tag", "A tag with this name already exists")
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// ListNotifications lists the caller's notifications
// GET /api/notifications
func (h *CatalogHandler) ListNotifications(c *gin.Context) {
	account := CurrentAccount(c)
	list, err := h.catalog.ListNotifications(c.Request.Context(), account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"notifications": list})
}

// MarkNotificationRead marks one notification as read
// POST /api/notifications/:id/read
func (h *CatalogHandler) MarkNotificationRead(c *gin.Context) {
	account := CurrentAccount(c)
	if err := h.catalog.MarkNotificationRead(c.Request.Context(), c.Param("id"), account.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "Notification marked as read"})
}

// ListResources lists the resource catalog
// GET /api/resources
func (h *CatalogHandler) ListResources(c *gin.Context) {
	list, err := h.catalog.ListResources(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"resources": list})
}

// CreateResource adds a catalog record
// POST /api/resources
func (h *CatalogHandler) CreateResource(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Type        string `json:"type" binding:"required"`
		ContentURL  string `json:"content_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	account := CurrentAccount(c)
	res, err := h.catalog.CreateResource(c.Request.Context(), account.ID, &models.Resource{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		ContentURL:  req.ContentURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resource": res})
}
