package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/trade-engine/internal/adapters/persistence"
	"github.com/hxuan190/trade-engine/internal/http/httputil"
)

// OutcomeHandler serves journaled trade outcomes by signature.
type OutcomeHandler struct {
	journal *persistence.JournalService
}

func NewOutcomeHandler(journal *persistence.JournalService) *OutcomeHandler {
	return &OutcomeHandler{journal: journal}
}

func (h *OutcomeHandler) Root() string {
	return "/outcomes"
}

func (h *OutcomeHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/:signature", h.getOutcome)
}

func (h *OutcomeHandler) getOutcome(c *gin.Context) {
	signature := c.Param("signature")

	outcome, ok := h.journal.Lookup(signature)
	if !ok {
		httputil.NotFound(c, "no outcome for signature "+signature)
		return
	}
	httputil.Success(c, outcome)
}
