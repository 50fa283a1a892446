package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/trade-engine/internal/gasfee"
	"github.com/hxuan190/trade-engine/internal/http/httputil"
	"github.com/hxuan190/trade-engine/internal/trading"
)

// FeesHandler mutates the shared fee-tier table at runtime. Updates apply to
// the next trade; in-flight trades keep the tier they resolved at build time.
type FeesHandler struct {
	executorSvc *trading.ExecutorService
}

func NewFeesHandler(executorSvc *trading.ExecutorService) *FeesHandler {
	return &FeesHandler{executorSvc: executorSvc}
}

func (h *FeesHandler) Root() string {
	return "/fees"
}

func (h *FeesHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	admin.POST("/global", h.setGlobal)
	admin.POST("/tiers/:name", h.setTier)
	admin.DELETE("/tiers/:name", h.removeTier)
	pub.GET("/tiers/:name", h.getTier)
}

type FeeTierRequest struct {
	CULimit             uint32 `json:"cuLimit"`
	CUPrice             uint64 `json:"cuPrice"`
	PriorityFeeLamports uint64 `json:"priorityFeeLamports"`
	TipLamports         uint64 `json:"tipLamports"`
}

func (h *FeesHandler) setGlobal(c *gin.Context) {
	var req FeeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	h.executorSvc.Fees().SetGlobalFeeStrategy(req.CULimit, req.CUPrice, req.PriorityFeeLamports, req.TipLamports)
	httputil.Success(c, gin.H{"tier": gasfee.GlobalTier})
}

func (h *FeesHandler) setTier(c *gin.Context) {
	name := c.Param("name")

	var req FeeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	h.executorSvc.Fees().SetTier(name, gasfee.FeeTier{
		CULimit:             req.CULimit,
		CUPrice:             req.CUPrice,
		PriorityFeeLamports: req.PriorityFeeLamports,
		TipLamports:         req.TipLamports,
	})
	httputil.Success(c, gin.H{"tier": name})
}

func (h *FeesHandler) removeTier(c *gin.Context) {
	name := c.Param("name")
	h.executorSvc.Fees().RemoveTier(name)
	httputil.Success(c, gin.H{"tier": name})
}

func (h *FeesHandler) getTier(c *gin.Context) {
	name := c.Param("name")
	tier, err := h.executorSvc.Fees().Tier(name)
	if err != nil {
		httputil.NotFound(c, err.Error())
		return
	}
	httputil.Success(c, tier)
}
