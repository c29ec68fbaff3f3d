package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
	"liyu1981.xyz/safekids-geofence-service/pkg/realtime"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
)

// HeaderUserID carries the authenticated caller id, set by the gateway in
// front of this service.
const HeaderUserID = "X-User-ID"

const callerKey = "callerID"

type RestfulServer struct {
	Server           *gin.Engine
	SafeKids         *safekids.SafeKids
	Hub              *realtime.Hub
	RateLimiterStore *safekids.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(callerID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(callerID)
	}
}

func (rs *RestfulServer) CheckCallerLimiter(callerID string) bool {
	limiter := rs.GetLimiter(callerID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// RequireCaller resolves the caller from HeaderUserID and applies the
// caller's rate limit.
func (rs *RestfulServer) RequireCaller(c *gin.Context) {
	callerID := c.GetHeader(HeaderUserID)
	if callerID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgCallerRequired})
		return
	}
	if !rs.CheckCallerLimiter(callerID) {
		metrics.RateLimitedTotal.Inc()
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}
	c.Set(callerKey, callerID)
	c.Next()
}

func caller(c *gin.Context) string {
	return c.GetString(callerKey)
}

func (rs *RestfulServer) CountRequests(c *gin.Context) {
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
}

func (rs *RestfulServer) Setup() {
	rs.Server.Use(rs.CountRequests)

	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := rs.Server.Group("/", rs.RequireCaller)
	{
		api.GET("/ws", rs.ServeRealtime)
	}

	children := api.Group("/children/:child_id")
	{
		children.POST("/locations", rs.PostLocation)
		children.GET("/locations/stats", rs.GetLocationStats)
	}

	geofences := api.Group("/geofences")
	{
		geofences.POST("", rs.CreateGeofence)
		geofences.GET("", rs.ListGeofences)
		geofences.POST("/bulk-delete", rs.BulkDeleteGeofences)
		geofences.POST("/bulk-update", rs.BulkUpdateGeofences)
		geofences.GET("/alerts", rs.ListAlerts)
		geofences.GET("/alerts/stats", rs.GetAlertStats)
		geofences.GET("/suggestions/:child_id", rs.GetSuggestions)
		geofences.POST("/suggestions/dismiss", rs.DismissSuggestion)
		geofences.GET("/:id", rs.GetGeofence)
		geofences.PUT("/:id", rs.UpdateGeofence)
		geofences.DELETE("/:id", rs.DeleteGeofence)
	}
}

func (rs *RestfulServer) ServeRealtime(c *gin.Context) {
	if rs.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": MsgRealtimeUnavailable})
		return
	}
	// on failure the upgrader has already written the response
	if err := rs.Hub.ServeWS(c.Writer, c.Request, caller(c)); err != nil {
		logger().Warn("websocket upgrade failed", zap.String("userId", caller(c)), zap.Error(err))
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}
