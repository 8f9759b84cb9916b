package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skychimp/newsletter-service/internal/models"
	"github.com/skychimp/newsletter-service/internal/services"
	"github.com/skychimp/newsletter-service/internal/services/excel"
)

type AdminHandler struct {
	userManagerService *services.UserManagerService
	excelService       *excel.Service
}

func NewAdminHandler(userManagerService *services.UserManagerService, excelService *excel.Service) *AdminHandler {
	return &AdminHandler{
		userManagerService: userManagerService,
		excelService:       excelService,
	}
}

// GetUsers godoc
// @Summary List service users
// @Description List every user except superusers. Manager access required.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserListItemResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.userManagerService.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ManageUsers godoc
// @Summary Bulk manage user accounts
// @Description Unblock every user then block the listed ones. When the caller is a superuser, additionally reset manager status everywhere and grant it to the listed users.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ManageUsersRequest true "Bulk management request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/admin/users/manage [post]
func (h *AdminHandler) ManageUsers(c *gin.Context) {
	actor := c.MustGet("user").(*models.User)

	var req models.ManageUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.userManagerService.ManageUsers(actor, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to manage users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Users updated"})
}

// ExportClients godoc
// @Summary Export the client registry as Excel
// @Description Download every client as an .xlsx workbook. Manager access required.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/admin/clients/export [get]
func (h *AdminHandler) ExportClients(c *gin.Context) {
	buf, filename, err := h.excelService.ExportClients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export clients", "details": err.Error()})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Header("Cache-Control", "must-revalidate")
	c.Header("Pragma", "public")

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
