package services

import (
	"context"

	"github.com/SscSPs/ledger_integrity/internal/core/domain"
)

// ExportSvc renders validated ledger entries into the regulatory flat file.
type ExportSvc interface {
	// GenerateExport validates and encodes the file in memory.
	GenerateExport(ctx context.Context, req domain.ExportRequest, actor domain.Actor) (*domain.ExportFile, error)

	// WriteExport generates the file and writes it into dir, returning its path.
	WriteExport(ctx context.Context, req domain.ExportRequest, dir string, actor domain.Actor) (string, *domain.ExportFile, error)
}
