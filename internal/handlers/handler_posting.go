package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/dto"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests related to ledger postings.
type postingHandler struct {
	postingService   portssvc.PostingSvcFacade
	integrityService portssvc.IntegrityVerifierSvc
}

func newPostingHandler(postingService portssvc.PostingSvcFacade, integrityService portssvc.IntegrityVerifierSvc) *postingHandler {
	return &postingHandler{postingService: postingService, integrityService: integrityService}
}

// postInvoice godoc
// @Summary Post an invoice or credit note
// @Description Turns an invoice or credit note into an unvalidated ledger entry and seals the source document
// @Tags entries
// @Accept json
// @Produce json
// @Param invoice body dto.PostInvoiceRequest true "Invoice to post"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Document already posted"
// @Failure 500 {object} map[string]string "Failed to post invoice"
// @Security BearerAuth
// @Router /entries [post]
func (h *postingHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	invoice, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.postingService.PostInvoice(c.Request.Context(), invoice, actor)
	if err != nil {
		respondError(c, err, "Failed to post invoice")
		return
	}

	logger.Info("Invoice posted", slog.String("invoice_id", invoice.InvoiceID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *postingHandler) getEntry(c *gin.Context) {
	entry, err := h.postingService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// validateEntry godoc
// @Summary Validate a ledger entry
// @Description Freezes the entry; a validated entry can no longer be cancelled
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already validated"
// @Security BearerAuth
// @Router /entries/{entryID}/validate [post]
func (h *postingHandler) validateEntry(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entry, err := h.postingService.ValidateEntry(c.Request.Context(), c.Param("entryID"), actor)
	if err != nil {
		respondError(c, err, "Failed to validate ledger entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// cancelPosting godoc
// @Summary Cancel an unvalidated posting
// @Description Deletes an entry that has not been validated yet and records the justification in the audit chain
// @Tags entries
// @Accept json
// @Param entryID path string true "Entry ID"
// @Param request body dto.CancelPostingRequest true "Cancellation justification"
// @Success 204 "Posting cancelled"
// @Failure 400 {object} map[string]string "Justification missing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already validated"
// @Security BearerAuth
// @Router /entries/{entryID} [delete]
func (h *postingHandler) cancelPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CancelPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelPosting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A justification is required"})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	entryID := c.Param("entryID")
	if err := h.postingService.CancelPosting(c.Request.Context(), entryID, req.Justification, actor); err != nil {
		respondError(c, err, "Failed to cancel posting")
		return
	}
	logger.Info("Posting cancelled", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// verifyEntry godoc
// @Summary Verify the seal of a ledger entry
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} domain.IntegrityVerification
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry or seal not found"
// @Security BearerAuth
// @Router /entries/{entryID}/integrity [get]
func (h *postingHandler) verifyEntry(c *gin.Context) {
	ctx := c.Request.Context()
	entry, err := h.postingService.GetEntry(ctx, c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger entry")
		return
	}
	result, err := h.integrityService.VerifyIntegrity(ctx, *entry)
	if err != nil {
		respondError(c, err, "Failed to verify ledger entry")
		return
	}
	c.JSON(http.StatusOK, result)
}

func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade, integrityService portssvc.IntegrityVerifierSvc) {
	h := newPostingHandler(postingService, integrityService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.postInvoice)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/validate", h.validateEntry)
		entries.DELETE("/:entryID", h.cancelPosting)
		entries.GET("/:entryID/integrity", h.verifyEntry)
	}
}
