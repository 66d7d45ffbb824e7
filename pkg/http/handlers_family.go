package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

// familySettingsView is the safe subset of device settings exposed to the
// family portal listing.
type familySettingsView struct {
	KioskMode     bool                 `json:"kioskMode"`
	QuietHours    models.QuietHours    `json:"quietHours"`
	Accessibility models.Accessibility `json:"accessibility"`
}

type familyDeviceView struct {
	DeviceID      string               `json:"deviceId"`
	SeniorID      string               `json:"seniorId"`
	SeniorName    string               `json:"seniorName"`
	Model         string               `json:"model"`
	Status        models.DeviceStatus  `json:"status"`
	LastHeartbeat time.Time            `json:"lastHeartbeat"`
	BatteryLevel  float64              `json:"batteryLevel"`
	Location      *models.Location     `json:"location,omitempty"`
	HealthMetrics models.HealthMetrics `json:"healthMetrics"`
	Settings      familySettingsView   `json:"settings"`
}

func toFamilyDeviceView(device models.Device) familyDeviceView {
	return familyDeviceView{
		DeviceID:      device.DeviceID,
		SeniorID:      device.SeniorID,
		SeniorName:    device.SeniorName,
		Model:         device.Model,
		Status:        device.Status,
		LastHeartbeat: device.LastHeartbeat,
		BatteryLevel:  device.BatteryLevel,
		Location:      device.Location,
		HealthMetrics: device.HealthMetrics,
		Settings: familySettingsView{
			KioskMode:     device.Settings.KioskMode,
			QuietHours:    device.Settings.QuietHours,
			Accessibility: device.Settings.Accessibility,
		},
	}
}

func (rs *RestfulServer) GetDevices(c *gin.Context) {
	principal := authedPrincipal(c)

	devices := rs.Mdm.ListFamilyDevices(principal.FamilyID)

	c.JSON(http.StatusOK, gin.H{
		"devices": common.Mapper(devices, toFamilyDeviceView),
	})
}

type CommandRequest struct {
	Type string `json:"type"`
}

var commandRequestSchema = z.Struct(z.Shape{
	"Type": z.String().Required().OneOf(models.CommandTypes),
})

func (rs *RestfulServer) PostCommand(c *gin.Context) {
	principal := authedPrincipal(c)
	deviceID := c.Param("device_id")

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

	var req CommandRequest
	if err := commandRequestSchema.Parse(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	payload, _ := body["payload"].(map[string]any)

	command, err := rs.Mdm.HandleFamilyCommand(principal.FamilyID, deviceID, models.CommandType(req.Type), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}

	message := "Command queued for delivery"
	if command.Status == models.CommandStatusSent {
		message = "Command sent to device"
	}

	c.JSON(http.StatusOK, gin.H{
		"commandId": command.ID,
		"status":    command.Status,
		"message":   message,
	})
}

func (rs *RestfulServer) PutSettings(c *gin.Context) {
	principal := authedPrincipal(c)
	deviceID := c.Param("device_id")

	var body struct {
		Settings *models.SettingsPatch `json:"settings"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body.Settings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings object required"})
		return
	}

	merged, err := rs.Mdm.HandleSettingsUpdate(principal.FamilyID, deviceID, *body.Settings)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": merged,
	})
}

func (rs *RestfulServer) GetLocation(c *gin.Context) {
	principal := authedPrincipal(c)
	deviceID := c.Param("device_id")

	location, seniorName, err := rs.Mdm.DeviceLocation(principal.FamilyID, deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":   location,
		"seniorName": seniorName,
		"lastUpdate": location.Timestamp,
	})
}

func (rs *RestfulServer) PostFamilyEmergency(c *gin.Context) {
	principal := authedPrincipal(c)
	deviceID := c.Param("device_id")

	var body struct {
		Message string `json:"message"`
	}
	// an empty body means the default urgent-contact message
	_ = json.NewDecoder(c.Request.Body).Decode(&body)

	command, err := rs.Mdm.HandleFamilyEmergency(principal.FamilyID, principal.MemberName, deviceID, body.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Emergency alert sent to device",
		"commandId": command.ID,
	})
}

// --- operator endpoints; the surrounding platform calls these, there is
// no end-user surface behind them ---

type EnrollmentCodeRequest struct {
	SeniorID   string `json:"seniorId"`
	SeniorName string `json:"seniorName"`
}

var enrollmentCodeRequestSchema = z.Struct(z.Shape{
	"SeniorID":   z.String().Required(),
	"SeniorName": z.String().Required(),
})

func (rs *RestfulServer) PostEnrollmentCode(c *gin.Context) {
	var req EnrollmentCodeRequest
	if err := enrollmentCodeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	code, err := rs.Mdm.CreateEnrollmentCode(req.SeniorID, req.SeniorName)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

type FamilyLinkRequest struct {
	SeniorID string `json:"seniorId"`
	FamilyID string `json:"familyId"`
}

var familyLinkRequestSchema = z.Struct(z.Shape{
	"SeniorID": z.String().Required(),
	"FamilyID": z.String().Required(),
})

func (rs *RestfulServer) PostFamilyLink(c *gin.Context) {
	var req FamilyLinkRequest
	if err := familyLinkRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Mdm.LinkFamily(req.SeniorID, req.FamilyID); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

type FamilySessionRequest struct {
	FamilyID   string `json:"familyId"`
	MemberName string `json:"memberName"`
}

var familySessionRequestSchema = z.Struct(z.Shape{
	"FamilyID":   z.String().Required(),
	"MemberName": z.String().Required(),
})

func (rs *RestfulServer) PostFamilySession(c *gin.Context) {
	var req FamilySessionRequest
	if err := familySessionRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	token := rs.Mdm.Tokens.IssueFamilySession(req.FamilyID, req.MemberName)

	c.JSON(http.StatusOK, gin.H{"token": token})
}
