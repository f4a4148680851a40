package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/gigpay/internal/http/middleware"
	"github.com/nurpe/gigpay/internal/model"
	"github.com/nurpe/gigpay/internal/service"
)

type Handler struct {
	ledger *service.LedgerService
	log    zerolog.Logger
}

func NewHandler(ledger *service.LedgerService, log zerolog.Logger) *Handler {
	return &Handler{ledger: ledger, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:id/pay", h.payJob)
	protected.GET("/jobs/:id/receipt", h.jobReceipt)
	protected.GET("/statements/export", h.exportStatement)
}

type jobResponse struct {
	ID          string  `json:"id"`
	ContractID  string  `json:"contract_id"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Paid        bool    `json:"paid"`
	PaymentDate *string `json:"payment_date"`
}

func toJobResponse(job model.Job) jobResponse {
	resp := jobResponse{
		ID:          job.ID.String(),
		ContractID:  job.ContractID.String(),
		Description: job.Description,
		Price:       job.Price.StringFixed(2),
		Paid:        job.Paid,
	}
	if job.PaymentDate != nil {
		formatted := job.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &formatted
	}
	return resp
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobs, err := h.ledger.ListUnpaidJobs(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, toJobResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": responses})
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	paid, err := h.ledger.PayJob(c.Request.Context(), jobID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": toJobResponse(*paid)})
}

func (h *Handler) jobReceipt(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	result, err := h.ledger.JobReceipt(c.Request.Context(), jobID, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) exportStatement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	result, err := h.ledger.ExportStatement(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("ledger operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
