package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/holerite-dev/holerite/internal/model"
)

// Handler serves the analysis endpoints.
type Handler struct {
	analyzer Analyzer
}

// NewHandler creates a Handler.
func NewHandler(a Analyzer) *Handler {
	return &Handler{analyzer: a}
}

type analyzeRequest struct {
	Locale    string            `json:"locale"`
	Model     string            `json:"model"`
	Tolerance string            `json:"tolerance"`
	Entities  []model.RawEntity `json:"entities" binding:"required"`
}

type validateRequest struct {
	Analysis  *model.PayslipAnalysis `json:"analysis" binding:"required"`
	Model     string                 `json:"model"`
	Tolerance string                 `json:"tolerance"`
}

// Analyze handles POST /api/v1/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.analyzer.Analyze(c.Request.Context(), AnalyzeInput{
		Locale:    req.Locale,
		Model:     req.Model,
		Tolerance: req.Tolerance,
		Entities:  req.Entities,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	RespondOK(c, res)
}

// Validate handles POST /api/v1/validate
func (h *Handler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	verdict, err := h.analyzer.Validate(c.Request.Context(), ValidateInput{
		Analysis:  *req.Analysis,
		Model:     req.Model,
		Tolerance: req.Tolerance,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, verdict)
}

// Locales handles GET /api/v1/locales
func (h *Handler) Locales(c *gin.Context) {
	RespondOK(c, gin.H{"locales": h.analyzer.Locales()})
}

// Liveness handles GET /healthz
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
