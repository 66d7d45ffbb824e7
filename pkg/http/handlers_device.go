package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

type EnrollRequest struct {
	EnrollmentCode string         `json:"enrollmentCode"`
	DeviceInfo     models.DeviceInfo `json:"deviceInfo"`
}

var enrollRequestSchema = z.Struct(z.Shape{
	"EnrollmentCode": z.String().Required(),
	"DeviceInfo": z.Struct(z.Shape{
		"DeviceID":   z.String(),
		"Model":      z.String().Required(),
		"OSVersion":  z.String(),
		"AppVersion": z.String(),
	}),
})

func (rs *RestfulServer) PostEnroll(c *gin.Context) {
	var req EnrollRequest
	if err := enrollRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	result, err := rs.Mdm.HandleEnroll(req.EnrollmentCode, req.DeviceInfo)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deviceId":        result.Device.DeviceID,
		"certificate":     result.Certificate,
		"settings":        result.Device.Settings,
		"serverEndpoints": result.ServerEndpoints,
	})
}

type LocationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type HeartbeatRequest struct {
	BatteryLevel float64       `json:"batteryLevel"`
	Location     *LocationBody `json:"location,omitempty"`
	Status       string        `json:"status"`
}

var heartbeatRequestSchema = z.Struct(z.Shape{
	"BatteryLevel": z.Float64().Required().GTE(0).LTE(100),
	"Location": z.Ptr(z.Struct(z.Shape{
		"Latitude":  z.Float64().Required(),
		"Longitude": z.Float64().Required(),
		"Accuracy":  z.Float64(),
	})),
	"Status": z.String().OneOf([]string{
		string(models.DeviceStatusOnline),
		string(models.DeviceStatusOffline),
		string(models.DeviceStatusEmergency),
		string(models.DeviceStatusLowBattery),
		string(models.DeviceStatusMaintenance),
	}),
})

func (rs *RestfulServer) PostHeartbeat(c *gin.Context) {
	deviceID := authedDeviceID(c)

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req HeartbeatRequest
	if err := heartbeatRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	hb := models.HeartbeatUpdate{
		BatteryLevel: req.BatteryLevel,
		Status:       models.DeviceStatus(req.Status),
	}
	if req.Location != nil {
		hb.Location = &models.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Accuracy:  req.Location.Accuracy,
		}
	}

	result, err := rs.Mdm.HandleHeartbeat(deviceID, hb)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commands":  result.Commands,
		"settings":  result.Settings,
		"timestamp": result.Timestamp,
	})
}

type EmergencyRequest struct {
	AlertType string `json:"alertType"`
	Message   string `json:"message"`
}

var emergencyRequestSchema = z.Struct(z.Shape{
	"AlertType": z.String().Required(),
	"Message":   z.String(),
})

func (rs *RestfulServer) PostEmergency(c *gin.Context) {
	deviceID := authedDeviceID(c)

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req EmergencyRequest
	if err := emergencyRequestSchema.Parse(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	// location and vitals ride along untyped; vitals is forwarded opaque
	var extra struct {
		Location *models.Location `json:"location"`
		Vitals   map[string]any   `json:"vitals"`
	}
	_ = json.Unmarshal(raw, &extra)

	result, err := rs.Mdm.HandleEmergency(deviceID, req.AlertType, req.Message, extra.Location, extra.Vitals)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"acknowledged":      true,
		"alertId":           result.AlertID,
		"emergencyServices": result.EmergencyServices,
	})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
