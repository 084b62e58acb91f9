package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/dto"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/gin-gonic/gin"
)

// integrityHandler exposes document sealing and chain verification.
type integrityHandler struct {
	integrityService portssvc.IntegritySvcFacade
}

func newIntegrityHandler(integrityService portssvc.IntegritySvcFacade) *integrityHandler {
	return &integrityHandler{integrityService: integrityService}
}

// sealQuote godoc
// @Summary Seal a quote
// @Description Appends a signed integrity record for the quote to the quote chain
// @Tags integrity
// @Accept json
// @Produce json
// @Param quote body dto.SealQuoteRequest true "Quote to seal"
// @Success 201 {object} domain.IntegrityRecord
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to seal quote"
// @Security BearerAuth
// @Router /integrity/quotes [post]
func (h *integrityHandler) sealQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SealQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SealQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quote, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.integrityService.SealDocument(c.Request.Context(), quote, actor)
	if err != nil {
		respondError(c, err, "Failed to seal quote")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// verifyInvoice godoc
// @Summary Verify an invoice against its seal
// @Tags integrity
// @Accept json
// @Produce json
// @Param invoice body dto.PostInvoiceRequest true "Invoice as currently stored"
// @Success 200 {object} domain.IntegrityVerification
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No seal for this invoice"
// @Security BearerAuth
// @Router /integrity/verify/invoice [post]
func (h *integrityHandler) verifyInvoice(c *gin.Context) {
	var req dto.PostInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	invoice, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.verify(c, invoice)
}

// verifyQuote godoc
// @Summary Verify a quote against its seal
// @Tags integrity
// @Accept json
// @Produce json
// @Param quote body dto.SealQuoteRequest true "Quote as currently stored"
// @Success 200 {object} domain.IntegrityVerification
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No seal for this quote"
// @Security BearerAuth
// @Router /integrity/verify/quote [post]
func (h *integrityHandler) verifyQuote(c *gin.Context) {
	var req dto.SealQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	quote, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.verify(c, quote)
}

func (h *integrityHandler) verify(c *gin.Context, doc domain.SealableDocument) {
	result, err := h.integrityService.VerifyIntegrity(c.Request.Context(), doc)
	if err != nil {
		respondError(c, err, "Failed to verify document")
		return
	}
	c.JSON(http.StatusOK, result)
}

// verifyChain godoc
// @Summary Verify one integrity chain
// @Tags integrity
// @Produce json
// @Param documentType path string true "Document type" Enums(invoice, credit_note, quote, ledger_entry)
// @Success 200 {object} domain.ChainVerification
// @Failure 400 {object} map[string]string "Unknown document type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /integrity/chains/{documentType} [get]
func (h *integrityHandler) verifyChain(c *gin.Context) {
	result, err := h.integrityService.VerifyChain(c.Request.Context(), domain.DocumentType(c.Param("documentType")))
	if err != nil {
		respondError(c, err, "Failed to verify chain")
		return
	}
	c.JSON(http.StatusOK, result)
}

// verifyAllChains godoc
// @Summary Verify every integrity chain
// @Tags integrity
// @Produce json
// @Success 200 {object} dto.VerifyChainsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to verify chains"
// @Security BearerAuth
// @Router /integrity/chains [get]
func (h *integrityHandler) verifyAllChains(c *gin.Context) {
	results, err := h.integrityService.VerifyAllChains(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to verify chains")
		return
	}
	c.JSON(http.StatusOK, dto.ToVerifyChainsResponse(results))
}

func registerIntegrityRoutes(group *gin.RouterGroup, integrityService portssvc.IntegritySvcFacade) {
	h := newIntegrityHandler(integrityService)

	integrity := group.Group("/integrity")
	{
		integrity.POST("/quotes", h.sealQuote)
		integrity.POST("/verify/invoice", h.verifyInvoice)
		integrity.POST("/verify/quote", h.verifyQuote)
		integrity.GET("/chains", h.verifyAllChains)
		integrity.GET("/chains/:documentType", h.verifyChain)
	}
}
