package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// WhereAmIHandler resolves the caller's public IP and coarse location for
// the dashboard header. Everything degrades: empty IP and "Unknown"
// placeholders are normal answers, not errors.
func WhereAmIHandler(c *gin.Context, ips services.IPResolver, geo services.LocationResolver) {
	ip := ips.ResolvePublicIP(c.Request.Context())
	loc := geo.ResolveLocation(c.Request.Context(), ip)

	utils.Success(c, gin.H{
		"ip":      ip,
		"country": loc.Country,
		"city":    loc.City,
	})
}
