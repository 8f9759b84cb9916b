package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/services"
	"github.com/skychimp/newsletter-service/internal/utils"
)

type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
	}
}

// newsletterError maps service errors to HTTP responses
func newsletterError(c *gin.Context, err error, action string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
	case strings.Contains(msg, "permission denied"):
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
	case strings.Contains(msg, "inactive"):
		c.JSON(http.StatusConflict, gin.H{"error": msg})
	case strings.Contains(msg, "must be"):
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": action, "details": msg})
	}
}

// CreateNewsletter godoc
// @Summary Create a newsletter
// @Description Create a newsletter and schedule its delivery. The newsletter moves to scheduled once the delivery job is registered.
// @Tags newsletters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateNewsletterRequest true "Newsletter creation request"
// @Success 201 {object} models.NewsletterResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/newsletters [post]
func (h *NewsletterHandler) CreateNewsletter(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req models.CreateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	newsletter, err := h.newsletterService.CreateNewsletter(user, &req)
	if err != nil {
		newsletterError(c, err, "Failed to create newsletter")
		return
	}

	c.JSON(http.StatusCreated, newsletter)
}

// GetNewsletters godoc
// @Summary List newsletters
// @Description Managers see every newsletter; other users see their own
// @Tags newsletters
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.NewsletterResponse
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/newsletters [get]
func (h *NewsletterHandler) GetNewsletters(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	newsletters, err := h.newsletterService.GetNewsletters(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get newsletters", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newsletters)
}

// GetNewsletterByID godoc
// @Summary Get a newsletter by ID
// @Tags newsletters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Newsletter ID"
// @Success 200 {object} models.NewsletterResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/newsletters/{id} [get]
func (h *NewsletterHandler) GetNewsletterByID(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	newsletter, err := h.newsletterService.GetNewsletterByID(user, id)
	if err != nil {
		newsletterError(c, err, "Failed to get newsletter")
		return
	}

	c.JSON(http.StatusOK, newsletter)
}

// UpdateNewsletter godoc
// @Summary Update a newsletter
// @Description Update an active newsletter and reschedule its delivery job. Inactive newsletters cannot be edited.
// @Tags newsletters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Newsletter ID"
// @Param request body models.UpdateNewsletterRequest true "Newsletter update request"
// @Success 200 {object} models.NewsletterResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/newsletters/{id} [put]
func (h *NewsletterHandler) UpdateNewsletter(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	newsletter, err := h.newsletterService.UpdateNewsletter(user, id, &req)
	if err != nil {
		newsletterError(c, err, "Failed to update newsletter")
		return
	}

	c.JSON(http.StatusOK, newsletter)
}

// DisableNewsletter godoc
// @Summary Deactivate a newsletter
// @Description Cancel the delivery job and mark the newsletter inactive. The row is kept for history.
// @Tags newsletters
// @Produce json
// @Security BearerAuth
// @Param id path int true "Newsletter ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/newsletters/{id} [delete]
func (h *NewsletterHandler) DisableNewsletter(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.newsletterService.DisableNewsletter(user, id); err != nil {
		newsletterError(c, err, "Failed to deactivate newsletter")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Newsletter deactivated"})
}

// GetLogs godoc
// @Summary List delivery logs
// @Description Managers see every log; other users see logs of their own newsletters
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/logs [get]
func (h *NewsletterHandler) GetLogs(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	logs, err := h.newsletterService.GetLogs(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get logs", "details": err.Error()})
		return
	}

	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	c.JSON(http.StatusOK, gin.H{
		"data":       utils.Paginate(logs, page, pageSize),
		"pagination": utils.CalculatePaginationInfo(len(logs), page, pageSize),
	})
}

// GetLogByID godoc
// @Summary Get a delivery log by ID
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Log ID"
// @Success 200 {object} models.NewsletterLogResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/logs/{id} [get]
func (h *NewsletterHandler) GetLogByID(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	log, err := h.newsletterService.GetLogByID(user, id)
	if err != nil {
		newsletterError(c, err, "Failed to get log")
		return
	}

	c.JSON(http.StatusOK, log)
}
