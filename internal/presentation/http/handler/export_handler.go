package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler serves report downloads
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// CustomersCSV downloads every customer as CSV
func (h *ExportHandler) CustomersCSV(c *gin.Context) {
	data, err := h.exportService.CustomersCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "customers.csv", csvContentType, data)
}

// InvoicesCSV downloads every invoice as CSV
func (h *ExportHandler) InvoicesCSV(c *gin.Context) {
	data, err := h.exportService.InvoicesCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "invoices.csv", csvContentType, data)
}

// ReportXLSX downloads the invoice and customer workbook
func (h *ExportHandler) ReportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.InvoicesXLSX(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, "report.xlsx", xlsxContentType, buf.Bytes())
}
