package handler

import (
	"context"
	"errors"
	"io"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/procurement/service"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/storage"
	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/tabular"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// QuotationImporter is the quotation side of the bulk import, injected to
// keep the two catalogs decoupled.
type QuotationImporter interface {
	ImportProducts(ctx context.Context, sheet *tabular.Sheet) (*service.ImportResult, error)
	ImportServices(ctx context.Context, sheet *tabular.Sheet) (*service.ImportResult, error)
}

// ImportTargets bundles the importers that live outside this package.
type ImportTargets struct {
	Quotation QuotationImporter
}

// ImportHandler receives workbook uploads, archives them and feeds the right
// import service.
type ImportHandler struct {
	catalog   *service.CatalogImportService
	quotation QuotationImporter
	archiver  *storage.Archiver
	logger    *zap.Logger
}

func NewImportHandler(catalog *service.CatalogImportService, targets ImportTargets, archiver *storage.Archiver, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		catalog:   catalog,
		quotation: targets.Quotation,
		archiver:  archiver,
		logger:    logger,
	}
}

type importFunc func(ctx context.Context, sheet *tabular.Sheet) (*service.ImportResult, error)

// ImportSuppliers loads the supplier sheet
// POST /api/v1/imports/suppliers (multipart, field "file")
func (h *ImportHandler) ImportSuppliers(c *gin.Context) {
	h.runImport(c, h.catalog.ImportSuppliers)
}

// ImportProducts loads the product sheet
// POST /api/v1/imports/products
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	h.runImport(c, h.catalog.ImportProducts)
}

// ImportRules loads the price-rule sheet
// POST /api/v1/imports/rules
func (h *ImportHandler) ImportRules(c *gin.Context) {
	h.runImport(c, h.catalog.ImportRules)
}

// ImportQuotationProducts loads the quotation product sheet with its service
// links and conditional additions
// POST /api/v1/imports/quotation/products
func (h *ImportHandler) ImportQuotationProducts(c *gin.Context) {
	h.runImport(c, h.quotation.ImportProducts)
}

// ImportQuotationServices loads the service master list
// POST /api/v1/imports/quotation/services
func (h *ImportHandler) ImportQuotationServices(c *gin.Context) {
	h.runImport(c, h.quotation.ImportServices)
}

// DownloadTemplate serves the import workbook template
// GET /api/v1/imports/template
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	data, err := tabular.BuildImportTemplate()
	if err != nil {
		InternalError(c, "build template: "+err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="modelo-importacao.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ImportHandler) runImport(c *gin.Context, run importFunc) {
	sheet, fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, err := run(c.Request.Context(), sheet)
	if err != nil {
		var headerErr *service.HeaderError
		if errors.As(err, &headerErr) {
			UnprocessableEntity(c, headerErr.Error())
			return
		}
		InternalError(c, "import: "+err.Error())
		return
	}

	// Archive after a successful batch so the stored history only holds
	// workbooks that were actually applied.
	if h.archiver != nil {
		if _, err := h.archiver.Store(c.Request.Context(), fileName, data,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil && h.logger != nil {
			h.logger.Warn("Archiving upload failed", zap.String("file", fileName), zap.Error(err))
		}
	}

	Success(c, result)
}

func (h *ImportHandler) readUpload(c *gin.Context) (*tabular.Sheet, string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "multipart field \"file\" is required")
		return nil, "", nil, false
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, "file too large")
		return nil, "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "read upload: "+err.Error())
		return nil, "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		InternalError(c, "read upload: "+err.Error())
		return nil, "", nil, false
	}

	sheet, err := tabular.ReadWorkbookBytes(data)
	if err != nil {
		BadRequest(c, "invalid workbook: "+err.Error())
		return nil, "", nil, false
	}
	return sheet, fileHeader.Filename, data, true
}
