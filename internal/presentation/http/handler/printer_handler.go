package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipts and the thermal printer.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// still useful when the printer type is "none"
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// Receipt returns the receipt together with its shareable text.
func (h *PrinterHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	receipt, err := h.printerService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt generated", gin.H{
		"receipt":       receipt,
		"share_message": service.FormatShareMessage(receipt),
	})
}

// PrintInvoice prints the invoice receipt.
func (h *PrinterHandler) PrintInvoice(c *gin.Context) {
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintInvoice(c.Request.Context(), id)
	if err != nil {
		// the receipt was built but printing failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// Share returns the receipt as plain text for pasting into a chat.
func (h *PrinterHandler) Share(c *gin.Context) {
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	msg, err := h.printerService.ShareMessage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Text(c, msg)
}
