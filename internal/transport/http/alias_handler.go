package httptransport

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/govindup63/Ghstmail.me/internal/monitoring"
	"github.com/govindup63/Ghstmail.me/internal/service"
)

// AliasHandler serves the alias lifecycle endpoints.
type AliasHandler struct {
	aliases *service.AliasService
	metrics *monitoring.Metrics
}

// NewAliasHandler creates the alias handler. metrics may be nil.
func NewAliasHandler(aliases *service.AliasService, metrics *monitoring.Metrics) *AliasHandler {
	return &AliasHandler{aliases: aliases, metrics: metrics}
}

// listAliases returns the caller's aliases in creation order.
func (h *AliasHandler) listAliases(c *gin.Context) {
	userID := c.GetString("userID")

	aliases, err := h.aliases.List(userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, aliases)
}

// createAlias mints a new alias for the caller.
func (h *AliasHandler) createAlias(c *gin.Context) {
	userID := c.GetString("userID")

	alias, err := h.aliases.Create(userID)
	if err != nil {
		if strings.Contains(err.Error(), "alias limit reached") {
			Conflict(c, err.Error())
			return
		}
		InternalError(c, err.Error())
		return
	}
	if h.metrics != nil {
		h.metrics.AliasesCreated.Inc()
	}
	Created(c, alias)
}

// deleteAlias removes the caller's alias identified by its address.
func (h *AliasHandler) deleteAlias(c *gin.Context) {
	userID := c.GetString("userID")
	address := c.Param("address")

	if err := h.aliases.Delete(userID, address); err != nil {
		switch {
		case strings.Contains(err.Error(), "does not belong"):
			Forbidden(c, err.Error())
		case strings.Contains(err.Error(), "not found"):
			NotFound(c, err.Error())
		default:
			InternalError(c, err.Error())
		}
		return
	}
	if h.metrics != nil {
		h.metrics.AliasesDeleted.Inc()
	}
	NoContent(c)
}
