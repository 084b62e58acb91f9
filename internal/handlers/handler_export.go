package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/ledger_integrity/internal/core/ports/services"
	"github.com/SscSPs/ledger_integrity/internal/dto"
	"github.com/SscSPs/ledger_integrity/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exportContentType is the media type of the regulatory flat file.
const exportContentType = "text/plain; charset=ISO-8859-15"

type exportHandler struct {
	exportService portssvc.ExportSvc
}

func newExportHandler(exportService portssvc.ExportSvc) *exportHandler {
	return &exportHandler{exportService: exportService}
}

// generateExport godoc
// @Summary Generate the regulatory export file
// @Description Streams the file back as an attachment. Nothing is returned when a pre-emission check fails; the violations are listed instead.
// @Tags exports
// @Accept json
// @Produce plain
// @Param request body dto.ExportRequest true "Export period and tax ID"
// @Success 200 {file} file "ISO-8859-15 flat file"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} dto.ExportRejectedResponse "Pre-emission checks failed"
// @Failure 429 {object} map[string]string "Too many exports"
// @Security BearerAuth
// @Router /exports [post]
func (h *exportHandler) generateExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateExport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	exportReq, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.exportService.GenerateExport(c.Request.Context(), exportReq, actor)
	if err != nil {
		respondError(c, err, "Failed to generate export")
		return
	}

	logger.Info("Export generated", slog.String("file", file.FileName), slog.Int("rows", file.RowCount))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("X-Export-Rows", strconv.Itoa(file.RowCount))
	c.Header("X-Export-Entries", strconv.Itoa(file.EntryCount))
	c.Data(http.StatusOK, exportContentType, file.Content)
}

func registerExportRoutes(group *gin.RouterGroup, exportService portssvc.ExportSvc, limit gin.HandlerFunc) {
	h := newExportHandler(exportService)
	group.POST("/exports", limit, h.generateExport)
}
