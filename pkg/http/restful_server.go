package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/mdm"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/ws"
)

type RestfulServer struct {
	Server           *gin.Engine
	Mdm              *mdm.MDM
	Hub              *ws.Manager
	RateLimiterStore *mdm.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/ws", rs.HandleWs)

	mdmGroup := rs.Server.Group("/api/mdm")
	{
		mdmGroup.POST("/enroll", rs.PostEnroll)
		mdmGroup.POST("/devices/:device_id/limiter", rs.PostLimiter)

		authed := mdmGroup.Group("", rs.DeviceAuth())
		{
			authed.POST("/heartbeat", rs.PostHeartbeat)
			authed.POST("/emergency", rs.PostEmergency)
		}
	}

	family := rs.Server.Group("/api/family", rs.FamilyAuth())
	{
		family.GET("/devices", rs.GetDevices)
		family.POST("/devices/:device_id/command", rs.PostCommand)
		family.PUT("/devices/:device_id/settings", rs.PutSettings)
		family.GET("/devices/:device_id/location", rs.GetLocation)
		family.POST("/devices/:device_id/emergency", rs.PostFamilyEmergency)
	}

	admin := rs.Server.Group("/api/admin")
	{
		admin.POST("/enrollment-codes", rs.PostEnrollmentCode)
		admin.POST("/family-links", rs.PostFamilyLink)
		admin.POST("/family-sessions", rs.PostFamilySession)
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) HandleWs(c *gin.Context) {
	if rs.Hub == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	rs.Hub.HandleUpgrade(c.Writer, c.Request)
}

// statusFor maps the coordination error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, mdm.ErrInvalidEnrollment):
		return http.StatusBadRequest
	case errors.Is(err, mdm.ErrDeviceNotFound),
		errors.Is(err, mdm.ErrCommandNotFound),
		errors.Is(err, mdm.ErrLocationUnavailable):
		return http.StatusNotFound
	case errors.Is(err, mdm.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, mdm.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, mdm.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
