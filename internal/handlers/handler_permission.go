package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/middleware"
)

// permissionHandler handles HTTP requests for the tri-state permission
// resolver. Resolution queries take a POST body because subject, permission,
// and context do not fit a path cleanly.
type permissionHandler struct {
	permissionService portssvc.PermissionSvcFacade
}

func newPermissionHandler(ps portssvc.PermissionSvcFacade) *permissionHandler {
	return &permissionHandler{permissionService: ps}
}

// registerPermissionRoutes registers routes for permissions and groups.
func registerPermissionRoutes(rg *gin.RouterGroup, permissionService portssvc.PermissionSvcFacade) {
	h := newPermissionHandler(permissionService)

	permissions := rg.Group("/permissions")
	{
		permissions.POST("/check", h.checkPermission)
		permissions.POST("", h.setPermission)
	}

	groups := rg.Group("/groups")
	{
		groups.POST("", h.registerGroup)
		groups.GET("", h.listGroups)
		groups.POST("/:group/check", h.groupCheckPermission)
		groups.POST("/:group/permissions", h.groupSetPermission)
		groups.POST("/:group/members", h.addGroupMember)
		groups.POST("/:group/members/remove", h.removeGroupMember)
		groups.POST("/:group/membership", h.checkGroupMembership)
	}

	rg.POST("/subjects/groups", h.subjectGroups)
}

func (h *permissionHandler) checkPermission(c *gin.Context) {
	var req dto.PermissionCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	value, err := h.permissionService.Has(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), req.Permission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permission"})
		return
	}

	c.JSON(http.StatusOK, dto.TriStateResponse{Value: value})
}

func (h *permissionHandler) setPermission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	value, err := req.TriStateValue()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tri-state value, expected true, false, or undefined"})
		return
	}

	var ok bool
	if req.Transient {
		ok, err = h.permissionService.SetTransientPermission(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), req.Permission, value)
	} else {
		ok, err = h.permissionService.SetPermission(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), req.Permission, value)
	}
	if err != nil {
		logger.Error("Failed to set permission", slog.String("error", err.Error()), slog.String("permission", req.Permission))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set permission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": ok})
}

func (h *permissionHandler) registerGroup(c *gin.Context) {
	var req dto.RegisterGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.permissionService.RegisterGroup(c.Request.Context(), req.Name); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Group already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register group"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

func (h *permissionHandler) listGroups(c *gin.Context) {
	groups, err := h.permissionService.Groups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	c.JSON(http.StatusOK, dto.GroupsResponse{Groups: groups})
}

func (h *permissionHandler) groupCheckPermission(c *gin.Context) {
	var req dto.GroupCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	value, err := h.permissionService.GroupHas(c.Request.Context(), req.Context.ToDomain(), c.Param("group"), req.Permission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve group permission"})
		return
	}

	c.JSON(http.StatusOK, dto.TriStateResponse{Value: value})
}

func (h *permissionHandler) groupSetPermission(c *gin.Context) {
	var req dto.GroupPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	value, err := domain.ParseTriState(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tri-state value, expected true, false, or undefined"})
		return
	}

	group := c.Param("group")
	var ok bool
	if req.Transient {
		ok, err = h.permissionService.GroupSetTransientPermission(c.Request.Context(), req.Context.ToDomain(), group, req.Permission, value)
	} else {
		ok, err = h.permissionService.GroupSetPermission(c.Request.Context(), req.Context.ToDomain(), group, req.Permission, value)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set group permission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": ok})
}

func (h *permissionHandler) addGroupMember(c *gin.Context) {
	var req dto.GroupMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	added, err := h.permissionService.AddGroup(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), c.Param("group"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add group member"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": added})
}

func (h *permissionHandler) removeGroupMember(c *gin.Context) {
	var req dto.GroupMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	removed, err := h.permissionService.RemoveGroup(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), c.Param("group"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove group member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": removed})
}

func (h *permissionHandler) checkGroupMembership(c *gin.Context) {
	var req dto.GroupMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	member, err := h.permissionService.InGroup(c.Request.Context(), req.Context.ToDomain(), req.Subject.ToDomain(), c.Param("group"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group membership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": member})
}

// subjectGroups answers both the group list and the primary group of a
// subject in one round trip.
func (h *permissionHandler) subjectGroups(c *gin.Context) {
	var req dto.SubjectContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	pctx := req.Context.ToDomain()
	subject := req.Subject.ToDomain()

	groups, err := h.permissionService.GroupsOf(c.Request.Context(), pctx, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subject groups"})
		return
	}
	primary, err := h.permissionService.PrimaryGroup(c.Request.Context(), pctx, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve primary group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups, "primaryGroup": primary})
}
