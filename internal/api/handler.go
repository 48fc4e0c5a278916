package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billease/billease/internal/models"
	"github.com/billease/billease/internal/service"
	"github.com/billease/billease/internal/store"
)

// Handler provides the HTTP handlers for the bill command and read surface.
type Handler struct {
	svc *service.BillService
}

// NewHandler creates a Handler over the given service.
func NewHandler(svc *service.BillService) *Handler {
	return &Handler{svc: svc}
}

// respondState answers a successful command with the fresh snapshot.
func (h *Handler) respondState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateDTO(h.svc.Snapshot()))
}

// respondError maps core errors onto HTTP statuses: rejected payloads are
// the caller's fault, collaborator failures are upstream's.
func respondError(c *gin.Context, err error, upstream bool) {
	status := http.StatusInternalServerError
	switch {
	case store.IsValidationError(err):
		status = http.StatusBadRequest
	case upstream:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetState returns the current bill snapshot.
func (h *Handler) GetState(c *gin.Context) {
	h.respondState(c)
}

// GetSummary returns the derived per-person breakdown and grand total.
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, toSummaryDTO(h.svc.Summary()))
}

// Extract runs OCR extraction on an uploaded bill photo.
func (h *Handler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageDataUri is required"})
		return
	}
	if err := h.svc.ExtractFromImage(c.Request.Context(), req.ImageDataURI); err != nil {
		respondError(c, err, true)
		return
	}
	h.respondState(c)
}

// SetPriceMode changes how extracted line prices are interpreted.
func (h *Handler) SetPriceMode(c *gin.Context) {
	var req priceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}
	if err := h.svc.SetPriceMode(req.Mode); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// Suggest applies AI-suggested assignments to unassigned items.
func (h *Handler) Suggest(c *gin.Context) {
	applied, err := h.svc.SuggestAssignments(c.Request.Context())
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"state":   toStateDTO(h.svc.Snapshot()),
	})
}

// AddItem appends a manually entered item.
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := h.svc.AddItem(req.Name, req.Price); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// UpdateItem overwrites provided fields of an item.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.svc.UpdateItem(c.Param("id"), req.Name, req.Price); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// DeleteItem removes an item.
func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Param("id")); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// AssignItem points an item at a person, pool, the everyone pool, or nothing.
func (h *Handler) AssignItem(c *gin.Context) {
	var req assignItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	target := models.AssignTarget{Kind: req.Kind, ID: req.ID}
	if err := h.svc.AssignItem(c.Param("id"), target); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// ResetAssignments unassigns every item.
func (h *Handler) ResetAssignments(c *gin.Context) {
	if err := h.svc.ResetAssignments(); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// SetCharge overwrites one bill-level charge field.
func (h *Handler) SetCharge(c *gin.Context) {
	var req setChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}
	if err := h.svc.SetCharge(req.Field, req.Value); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// SetPeopleCount grows or shrinks the people list.
func (h *Handler) SetPeopleCount(c *gin.Context) {
	var req setPeopleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.svc.SetPeopleCount(req.Count); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// RenamePerson sets a person's display name.
func (h *Handler) RenamePerson(c *gin.Context) {
	var req renamePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := h.svc.RenamePerson(c.Param("id"), req.Name); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// SavePeople persists the current people list for future sessions.
func (h *Handler) SavePeople(c *gin.Context) {
	if err := h.svc.SavePeople(c.Request.Context()); err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// CreatePool adds a custom shared pool.
func (h *Handler) CreatePool(c *gin.Context) {
	var req poolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and personIds are required"})
		return
	}
	if err := h.svc.CreatePool(c.Request.Context(), req.Name, req.PersonIDs); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// UpdatePool overwrites provided fields of a pool.
func (h *Handler) UpdatePool(c *gin.Context) {
	var req updatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.svc.UpdatePool(c.Request.Context(), c.Param("id"), req.Name, req.PersonIDs); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// DeletePool removes a pool and unassigns its items.
func (h *Handler) DeletePool(c *gin.Context) {
	if err := h.svc.DeletePool(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// ResetAll clears the session and the persisted lists.
func (h *Handler) ResetAll(c *gin.Context) {
	if err := h.svc.ResetAll(c.Request.Context()); err != nil {
		respondError(c, err, false)
		return
	}
	h.respondState(c)
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
