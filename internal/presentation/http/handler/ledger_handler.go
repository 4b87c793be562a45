package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkjewellers/billing-api/internal/application/service"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/request"
	"github.com/rkjewellers/billing-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles payments, discounts, revenue and resets
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RecordPayment handles a payment split over the selected invoices
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	var req request.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	invoices, err := h.ledgerService.RecordPayment(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", invoices)
}

// ClearWithDiscount handles writing off an invoice's remaining due
func (h *LedgerHandler) ClearWithDiscount(c *gin.Context) {
	id, ok := pathID(c, "invoice")
	if !ok {
		return
	}

	invoice, err := h.ledgerService.ClearWithDiscount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice cleared with discount", invoice)
}

// TodayRevenue handles reading today's revenue bucket
func (h *LedgerHandler) TodayRevenue(c *gin.Context) {
	revenue, err := h.ledgerService.TodayRevenue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's revenue retrieved successfully", revenue)
}

// ResetTodayRevenue handles zeroing today's revenue bucket
func (h *LedgerHandler) ResetTodayRevenue(c *gin.Context) {
	var req request.ResetRequest
	if !bindJSON(c, &req) {
		return
	}

	revenue, err := h.ledgerService.ResetTodayRevenue(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's revenue reset", revenue)
}

// ResetAllInvoices handles deleting every invoice
func (h *LedgerHandler) ResetAllInvoices(c *gin.Context) {
	var req request.ResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.ledgerService.ResetAllInvoices(c.Request.Context(), req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "All invoices deleted", nil)
}

// ResetTotalRevenue handles clearing payments on every invoice
func (h *LedgerHandler) ResetTotalRevenue(c *gin.Context) {
	var req request.ResetRequest
	if !bindJSON(c, &req) {
		return
	}

	count, err := h.ledgerService.ResetTotalRevenue(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Total revenue reset", gin.H{"invoices_reset": count})
}
