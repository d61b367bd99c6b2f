package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/services"
)

type CandidateHandler struct {
	CandidateService *services.CandidateService
}

func NewCandidateHandler(s *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{CandidateService: s}
}

// ListCandidates is GET /candidates?search=&skill=&minExp=
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	var filter dtos.CandidateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, bindError(err))
		return
	}
	rows, err := h.CandidateService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetCandidate is GET /candidates/:id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidate, err := h.CandidateService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// CreateCandidate is POST /candidates. It is public and rate limited.
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req dtos.CandidateCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	candidate, err := h.CandidateService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}
