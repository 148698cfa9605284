package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
)

// sharedAccountHandler handles HTTP requests for shared-account membership.
// Service-level "unsupported" and "not found" both surface as false answers,
// matching the service contract, so most endpoints never 404.
type sharedAccountHandler struct {
	sharedAccountService portssvc.SharedAccountSvcFacade
}

func newSharedAccountHandler(ss portssvc.SharedAccountSvcFacade) *sharedAccountHandler {
	return &sharedAccountHandler{sharedAccountService: ss}
}

// registerSharedAccountRoutes registers routes for shared-account membership.
func registerSharedAccountRoutes(rg *gin.RouterGroup, sharedAccountService portssvc.SharedAccountSvcFacade) {
	h := newSharedAccountHandler(sharedAccountService)

	accounts := rg.Group("/accounts/:accountID")
	{
		accounts.GET("/access", h.listAccessEntries)
		accounts.PUT("/owner", h.setOwner)
		accounts.GET("/owner/:subjectID", h.isOwner)
		accounts.POST("/members", h.addMember)
		accounts.DELETE("/members/:subjectID", h.removeMember)
		accounts.GET("/members/:subjectID", h.isMember)
		accounts.PUT("/members/permissions", h.updatePermission)
		accounts.GET("/members/:subjectID/permissions/:permission", h.hasPermission)
	}

	rg.GET("/subjects/:subjectID/accounts", h.accountsWithAccess)
}

// parseSubjectID extracts and validates the subjectID path parameter.
func parseSubjectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("subjectID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subject ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *sharedAccountHandler) listAccessEntries(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	entries, err := h.sharedAccountService.AccessEntries(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list access entries"})
		return
	}

	out := make([]dto.AccessEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.ToAccessEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

func (h *sharedAccountHandler) setOwner(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	var req dto.SetOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	changed, err := h.sharedAccountService.SetOwner(c.Request.Context(), accountID, req.SubjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set account owner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": changed})
}

func (h *sharedAccountHandler) isOwner(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	subjectID, ok := parseSubjectID(c)
	if !ok {
		return
	}

	owner, err := h.sharedAccountService.IsAccountOwner(c.Request.Context(), accountID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account owner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": owner})
}

func (h *sharedAccountHandler) addMember(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	added, err := h.sharedAccountService.AddAccountMember(c.Request.Context(), accountID, req.SubjectID, req.Permissions...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add account member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": added})
}

func (h *sharedAccountHandler) removeMember(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	subjectID, ok := parseSubjectID(c)
	if !ok {
		return
	}

	removed, err := h.sharedAccountService.RemoveAccountMember(c.Request.Context(), accountID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove account member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": removed})
}

func (h *sharedAccountHandler) isMember(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	subjectID, ok := parseSubjectID(c)
	if !ok {
		return
	}

	member, err := h.sharedAccountService.IsAccountMember(c.Request.Context(), accountID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account membership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": member})
}

func (h *sharedAccountHandler) updatePermission(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	var req dto.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.sharedAccountService.UpdateAccountPermission(c.Request.Context(), accountID, req.SubjectID, req.Permission, req.Value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account permission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": updated})
}

func (h *sharedAccountHandler) hasPermission(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	subjectID, ok := parseSubjectID(c)
	if !ok {
		return
	}
	permission := domain.AccountPermission(c.Param("permission"))

	allowed, err := h.sharedAccountService.HasAccountPermission(c.Request.Context(), accountID, subjectID, permission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account permission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"value": allowed})
}

// accountsWithAccess lists accounts the subject can reach. The optional
// "filter" query selects the owned or member shortcut; otherwise the
// comma-separated "permissions" query names the exact set that must all hold.
func (h *sharedAccountHandler) accountsWithAccess(c *gin.Context) {
	subjectID, ok := parseSubjectID(c)
	if !ok {
		return
	}

	var (
		accounts []uuid.UUID
		err      error
	)
	switch c.Query("filter") {
	case "owned":
		accounts, err = h.sharedAccountService.AccountsWithOwnerOf(c.Request.Context(), subjectID)
	case "member":
		accounts, err = h.sharedAccountService.AccountsWithMembershipTo(c.Request.Context(), subjectID)
	default:
		var perms []domain.AccountPermission
		if raw := c.Query("permissions"); raw != "" {
			for _, p := range strings.Split(raw, ",") {
				perms = append(perms, domain.AccountPermission(strings.TrimSpace(p)))
			}
		}
		accounts, err = h.sharedAccountService.AccountsWithAccessTo(c.Request.Context(), subjectID, perms...)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}
