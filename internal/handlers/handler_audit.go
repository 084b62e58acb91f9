package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/core/services"
	"github.com/SscSPs/ledger_integrity/internal/dto"
	"github.com/gin-gonic/gin"
)

type auditHandler struct {
	auditService portssvc.AuditReaderSvc
}

func newAuditHandler(auditService portssvc.AuditReaderSvc) *auditHandler {
	return &auditHandler{auditService: auditService}
}

// listRecords godoc
// @Summary List audit records
// @Tags audit
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /audit/records [get]
func (h *auditHandler) listRecords(c *gin.Context) {
	var params dto.ListAuditRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	records, next, err := h.auditService.ListRecords(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list audit records")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditRecordsResponse{Records: records, NextToken: next})
}

// verifyChain godoc
// @Summary Verify the tail of the audit chain
// @Tags audit
// @Produce json
// @Param limit query int false "Number of most recent records to check" minimum(1) maximum(100000)
// @Success 200 {object} domain.ChainReport
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /audit/verify [get]
func (h *auditHandler) verifyChain(c *gin.Context) {
	var params dto.VerifyAuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	limit := params.Limit
	if limit == 0 {
		limit = services.DefaultAuditVerifyLimit
	}
	report, err := h.auditService.VerifyChain(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to verify audit chain")
		return
	}
	c.JSON(http.StatusOK, report)
}

// suspiciousActivity godoc
// @Summary Detect suspicious activity
// @Description Scans audit records since the given instant for bursts of deletions and off-hours changes
// @Tags audit
// @Produce json
// @Param since query string true "Start of the scan (RFC 3339)"
// @Success 200 {object} dto.SuspiciousActivityResponse
// @Failure 400 {object} map[string]string "since missing or malformed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /audit/suspicious [get]
func (h *auditHandler) suspiciousActivity(c *gin.Context) {
	var params dto.SuspiciousActivityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter since is required"})
		return
	}
	since, err := time.Parse(time.RFC3339, params.Since)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC 3339 timestamp"})
		return
	}
	activities, err := h.auditService.DetectSuspiciousActivity(c.Request.Context(), since)
	if err != nil {
		respondError(c, err, "Failed to scan audit records")
		return
	}
	c.JSON(http.StatusOK, dto.SuspiciousActivityResponse{Activities: activities})
}

func registerAuditRoutes(group *gin.RouterGroup, auditService portssvc.AuditReaderSvc) {
	h := newAuditHandler(auditService)

	audit := group.Group("/audit")
	{
		audit.GET("/records", h.listRecords)
		audit.GET("/verify", h.verifyChain)
		audit.GET("/suspicious", h.suspiciousActivity)
	}
}
