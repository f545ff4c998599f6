package handler

import (
	"mpin_backend/internal/mpin/service"
	"mpin_backend/internal/mpin/transport"
	"mpin_backend/platform/apperr"
	"mpin_backend/platform/httpkit"
	"mpin_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for MPIN evaluation.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new MPIN handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the evaluation routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluate", h.Evaluate)
	rg.POST("/evaluate/batch", h.EvaluateBatch)
}

// RegisterPublicRoutes mounts routes that need no authentication. The
// blacklist summary exposes counts and a version, never entries.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/blacklist", h.Blacklist)
}

// Evaluate classifies one MPIN.
// POST /api/v1/mpin/evaluate
func (h *Handler) Evaluate(c *gin.Context) {
	var req transport.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.Evaluate(c.Request.Context(), toInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toResponse(result))
}

// EvaluateBatch classifies several MPINs; format errors are reported per item.
// POST /api/v1/mpin/evaluate/batch
func (h *Handler) EvaluateBatch(c *gin.Context) {
	var req transport.BatchEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	inputs := make([]service.Input, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = toInput(item)
	}

	results, err := h.svc.EvaluateBatch(c.Request.Context(), inputs)
	if httpkit.HandleError(c, err) {
		return
	}

	out := transport.BatchEvaluateResponse{Results: make([]transport.BatchItemResult, len(results))}
	for i, r := range results {
		item := transport.BatchItemResult{Index: r.Index}
		if r.Err != nil {
			item.Error = r.Err.Error()
			if domainErr, ok := apperr.As(r.Err); ok {
				item.Error = domainErr.Message
				item.Code = domainErr.Code
			}
		} else {
			resp := toResponse(r.Assessment)
			item.Result = &resp
		}
		out.Results[i] = item
	}
	httpkit.OK(c, out)
}

// Blacklist describes the active blacklist without exposing its entries.
// GET /api/v1/mpin/blacklist
func (h *Handler) Blacklist(c *gin.Context) {
	info := h.svc.Blacklist()
	httpkit.OK(c, transport.BlacklistResponse{
		Version:   info.Version,
		FourDigit: info.FourDigit,
		SixDigit:  info.SixDigit,
		MatchMode: string(h.svc.MatchMode()),
	})
}

func toInput(req transport.EvaluateRequest) service.Input {
	return service.Input{
		MPIN:        req.MPIN,
		DOBSelf:     req.DOBSelf,
		DOBSpouse:   req.DOBSpouse,
		Anniversary: req.Anniversary,
	}
}

func toResponse(a service.Assessment) transport.EvaluateResponse {
	return transport.EvaluateResponse{
		Strength:   string(a.Verdict.Strength),
		Reasons:    a.Verdict.ReasonStrings(),
		GuessScore: a.GuessScore,
	}
}
