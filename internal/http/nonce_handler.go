package http

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/trade-engine/internal/http/httputil"
	"github.com/hxuan190/trade-engine/internal/nonce"
)

// NonceHandler manages the durable nonce cache. Accounts must be refreshed
// here before a trade can reference them.
type NonceHandler struct {
	nonceCache *nonce.CacheService
}

func NewNonceHandler(nonceCache *nonce.CacheService) *NonceHandler {
	return &NonceHandler{nonceCache: nonceCache}
}

func (h *NonceHandler) Root() string {
	return "/nonces"
}

func (h *NonceHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	admin.POST("/refresh", h.refresh)
	pub.GET("/:account", h.getNonce)
}

type NonceRefreshRequest struct {
	Account string `json:"account" binding:"required"`
}

type NonceResponse struct {
	Account   string `json:"account"`
	Authority string `json:"authority"`
	Nonce     string `json:"nonce"`
	Slot      uint64 `json:"slot"`
}

func nonceResponse(entry *nonce.CachedNonce) NonceResponse {
	return NonceResponse{
		Account:   entry.Account.String(),
		Authority: entry.Authority.String(),
		Nonce:     entry.Blockhash.String(),
		Slot:      entry.Slot,
	}
}

func (h *NonceHandler) refresh(c *gin.Context) {
	var req NonceRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	account, err := solana.PublicKeyFromBase58(req.Account)
	if err != nil {
		httputil.BadRequest(c, "invalid nonce account address")
		return
	}

	entry, err := h.nonceCache.Refresh(c.Request.Context(), account)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	httputil.Success(c, nonceResponse(entry))
}

func (h *NonceHandler) getNonce(c *gin.Context) {
	account, err := solana.PublicKeyFromBase58(c.Param("account"))
	if err != nil {
		httputil.BadRequest(c, "invalid nonce account address")
		return
	}

	entry, err := h.nonceCache.Get(account)
	if err != nil {
		httputil.NotFound(c, err.Error())
		return
	}
	httputil.Success(c, nonceResponse(entry))
}
