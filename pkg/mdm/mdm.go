package mdm

import (
	"encoding/json"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/db"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/ws"
)

const (
	// DefaultOfflineAfter is how long a device may stay silent before the
	// sweep marks it offline.
	DefaultOfflineAfter = 5 * time.Minute

	// resolvedCommandArchiveSize bounds how many completed/failed commands
	// are kept in memory after leaving the live queue.
	resolvedCommandArchiveSize = 4096

	healthAnomalyAlertsPerDay    = 3
	healthAnomalyComplianceFloor = 50.0
)

// DeviceSender pushes an envelope to a device's live channel. Implemented
// by ws.Manager; nil means no live transport is wired (commands then wait
// for the next heartbeat).
type DeviceSender interface {
	Send(deviceID string, envelope any) bool
	IsConnected(deviceID string) bool
}

// FamilySender pushes an envelope to every live channel of a family.
type FamilySender interface {
	SendFamily(familyID string, envelope any)
}

type IRegistry interface {
	Enroll(code string, info models.DeviceInfo) (*models.Device, error)
	Get(deviceID string) (*models.Device, error)
	UpdateHeartbeat(deviceID string, hb models.HeartbeatUpdate) error
	MergeSettings(deviceID string, patch models.SettingsPatch) (*models.TabletSettings, error)
	ApplyHealthUpdate(deviceID string, update models.HealthUpdate) (*models.HealthMetrics, error)
	SetStatus(deviceID string, status models.DeviceStatus) error
	IncrementAlertCounts(deviceID string) error
	MarkStale(threshold time.Duration) []models.Device
	Devices() []models.Device
}

type IQueue interface {
	Enqueue(deviceID string, ctype models.CommandType, payload map[string]any) (*models.RemoteCommand, error)
	PendingFor(deviceID string) []models.RemoteCommand
	Get(commandID string) (*models.RemoteCommand, error)
	RecordResult(commandID string, status models.CommandStatus, result map[string]any) (*models.RemoteCommand, error)
}

type IGate interface {
	AssertOwnership(device *models.Device, familyID string) error
	FilterOwned(devices []models.Device, familyID string) []models.Device
}

type INotifier interface {
	NotifyFamily(seniorID string, event models.FamilyEvent)
	NotifyEmergencyServices(alert *models.EmergencyAlert)
}

// MDM owns all live device and command state and composes the registry,
// command queue, heartbeat monitor and authorization gate into the
// externally visible operations.
type MDM struct {
	Db        db.DB
	Registry  IRegistry
	Queue     IQueue
	Gate      IGate
	Notifier  INotifier
	Channels  DeviceSender
	Tokens    *TokenService
	Directory FamilyDirectory

	OfflineAfter time.Duration

	devices map[string]*models.Device
	devMu   sync.RWMutex

	commands map[string]*models.RemoteCommand
	cmdMu    sync.Mutex
	archive  *lru.Cache[string, models.RemoteCommand]
}

type ServiceOpts struct {
	Registry IRegistry
	Queue    IQueue
	Gate     IGate
	Notifier INotifier
}

func (m *MDM) WithServices(opts ServiceOpts) *MDM {
	if opts.Registry != nil {
		m.Registry = opts.Registry
	}
	if opts.Queue != nil {
		m.Queue = opts.Queue
	}
	if opts.Gate != nil {
		m.Gate = opts.Gate
	}
	if opts.Notifier != nil {
		m.Notifier = opts.Notifier
	}
	return m
}

func NewMDM(dbInstance *db.DB) *MDM {
	m := &MDM{
		Db:           *dbInstance,
		Tokens:       NewTokenService(SecretFromEnv()),
		OfflineAfter: DefaultOfflineAfter,
		devices:      make(map[string]*models.Device),
		commands:     make(map[string]*models.RemoteCommand),
	}
	m.Directory = &dbFamilyDirectory{db: dbInstance}
	m.archive, _ = lru.New[string, models.RemoteCommand](resolvedCommandArchiveSize)
	m.WithServices(ServiceOpts{
		Registry: m.GetIRegistry(),
		Queue:    m.GetIQueue(),
		Gate:     m.GetIGate(),
		Notifier: NewWsNotifier(m.Directory, nil),
	})
	m.restoreDevices()
	return m
}

// --- facade operations ---

type EnrollResult struct {
	Device          *models.Device
	Certificate     string
	ServerEndpoints map[string]string
}

func (m *MDM) HandleEnroll(code string, info models.DeviceInfo) (*EnrollResult, error) {
	device, err := m.Registry.Enroll(code, info)
	if err != nil {
		return nil, err
	}
	return &EnrollResult{
		Device:      device,
		Certificate: m.Tokens.IssueDeviceCertificate(device.DeviceID),
		ServerEndpoints: map[string]string{
			"heartbeat": "/api/mdm/heartbeat",
			"commands":  "/api/mdm/commands",
			"emergency": "/api/mdm/emergency",
			"health":    "/api/mdm/health",
		},
	}, nil
}

type HeartbeatResult struct {
	Commands  []models.RemoteCommand
	Settings  models.TabletSettings
	Timestamp time.Time
}

// HandleHeartbeat updates the registry and drains the device's pending
// commands as the response payload. Pending commands are not advanced to
// sent here; the device acknowledges each over its channel or a later
// heartbeat response.
func (m *MDM) HandleHeartbeat(deviceID string, hb models.HeartbeatUpdate) (*HeartbeatResult, error) {
	if err := m.Registry.UpdateHeartbeat(deviceID, hb); err != nil {
		return nil, err
	}
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}
	return &HeartbeatResult{
		Commands:  m.Queue.PendingFor(deviceID),
		Settings:  device.Settings,
		Timestamp: time.Now(),
	}, nil
}

type EmergencyResult struct {
	AlertID           string
	EmergencyServices bool
}

func (m *MDM) HandleEmergency(deviceID, alertType, message string, location *models.Location, vitals map[string]any) (*EmergencyResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMNotify),
	)

	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}

	if err := m.Registry.SetStatus(deviceID, models.DeviceStatusEmergency); err != nil {
		return nil, err
	}
	_ = m.Registry.IncrementAlertCounts(deviceID)

	alert := &models.EmergencyAlert{
		ID:         newID(),
		DeviceID:   deviceID,
		SeniorID:   device.SeniorID,
		SeniorName: device.SeniorName,
		AlertType:  alertType,
		Message:    message,
		Location:   location,
		Vitals:     vitals,
		Timestamp:  time.Now(),
		Status:     "active",
	}
	m.saveAlertRecord(alert)

	logger.Warn("Emergency alert raised",
		zap.String("device_id", deviceID),
		zap.String("alert_type", alertType),
		zap.String("alert_id", alert.ID))

	m.Notifier.NotifyFamily(device.SeniorID, models.FamilyEvent{
		Type:     models.FamilyEventEmergencyAlert,
		DeviceID: deviceID,
		SeniorID: device.SeniorID,
		Data: map[string]any{
			"alertId":    alert.ID,
			"alertType":  alertType,
			"message":    message,
			"seniorName": device.SeniorName,
		},
		Timestamp: alert.Timestamp,
	})

	escalate := alertType == "critical" || alertType == "fall_detected"
	if escalate {
		m.Notifier.NotifyEmergencyServices(alert)
	}

	return &EmergencyResult{AlertID: alert.ID, EmergencyServices: escalate}, nil
}

func (m *MDM) HandleFamilyCommand(familyID, deviceID string, ctype models.CommandType, payload map[string]any) (*models.RemoteCommand, error) {
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}
	if err := m.Gate.AssertOwnership(device, familyID); err != nil {
		return nil, err
	}
	return m.Queue.Enqueue(deviceID, ctype, payload)
}

func (m *MDM) HandleSettingsUpdate(familyID, deviceID string, patch models.SettingsPatch) (*models.TabletSettings, error) {
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}
	if err := m.Gate.AssertOwnership(device, familyID); err != nil {
		return nil, err
	}

	merged, err := m.Registry.MergeSettings(deviceID, patch)
	if err != nil {
		return nil, err
	}

	// the device picks the change up over its live channel or on the next
	// heartbeat
	if _, err := m.Queue.Enqueue(deviceID, models.CommandUpdateSettings, map[string]any{
		"settings": merged,
	}); err != nil {
		return nil, err
	}

	return merged, nil
}

func (m *MDM) HandleFamilyEmergency(familyID, memberName, deviceID, message string) (*models.RemoteCommand, error) {
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}
	if err := m.Gate.AssertOwnership(device, familyID); err != nil {
		return nil, err
	}

	if message == "" {
		message = memberName + " needs to reach you urgently"
	}
	return m.Queue.Enqueue(deviceID, models.CommandEmergencyMode, map[string]any{
		"message":   message,
		"from":      memberName,
		"timestamp": time.Now(),
	})
}

func (m *MDM) ListFamilyDevices(familyID string) []models.Device {
	return m.Gate.FilterOwned(m.Registry.Devices(), familyID)
}

func (m *MDM) DeviceLocation(familyID, deviceID string) (*models.Location, string, error) {
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return nil, "", err
	}
	if err := m.Gate.AssertOwnership(device, familyID); err != nil {
		return nil, "", err
	}
	if device.Location == nil {
		return nil, "", ErrLocationUnavailable
	}
	return device.Location, device.SeniorName, nil
}

// --- live channel callbacks (ws.Backend) ---

func (m *MDM) AuthenticateDevice(deviceID, authToken string) bool {
	if !m.Tokens.VerifyDeviceCertificate(deviceID, authToken) {
		return false
	}
	_, err := m.Registry.Get(deviceID)
	return err == nil
}

func (m *MDM) AuthenticateFamily(familyID, authToken string) bool {
	principal, ok := m.Tokens.VerifyFamilySession(authToken)
	return ok && principal.FamilyID == familyID
}

func (m *MDM) DeviceConnected(deviceID string) {
	if err := m.Registry.SetStatus(deviceID, models.DeviceStatusOnline); err != nil {
		common.GetLogger().Warn("Status update for connected device failed",
			zap.String("device_id", deviceID), zap.Error(err))
	}
}

func (m *MDM) DeviceDisconnected(deviceID string) {
	if err := m.Registry.SetStatus(deviceID, models.DeviceStatusOffline); err != nil {
		common.GetLogger().Warn("Status update for disconnected device failed",
			zap.String("device_id", deviceID), zap.Error(err))
	}
}

func (m *MDM) CommandResponse(commandID, status string, result map[string]any) {
	logger := common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMQueue),
	)

	command, err := m.Queue.RecordResult(commandID, models.CommandStatus(status), result)
	if err != nil {
		logger.Warn("Dropping command response", zap.String("command_id", commandID), zap.Error(err))
		return
	}

	device, err := m.Registry.Get(command.DeviceID)
	if err != nil {
		return
	}
	m.Notifier.NotifyFamily(device.SeniorID, models.FamilyEvent{
		Type:     models.FamilyEventCommandResult,
		DeviceID: command.DeviceID,
		SeniorID: device.SeniorID,
		Data: map[string]any{
			"commandId": command.ID,
			"type":      string(command.Type),
			"status":    string(command.Status),
			"result":    result,
		},
		Timestamp: time.Now(),
	})
}

func (m *MDM) HealthUpdate(deviceID string, healthData map[string]any) {
	logger := common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMRegistry),
	)

	update, err := decodeHealthUpdate(healthData)
	if err != nil {
		logger.Warn("Dropping malformed health update", zap.String("device_id", deviceID), zap.Error(err))
		return
	}

	metrics, err := m.Registry.ApplyHealthUpdate(deviceID, update)
	if err != nil {
		logger.Warn("Dropping health update", zap.String("device_id", deviceID), zap.Error(err))
		return
	}

	m.checkHealthAnomalies(deviceID, metrics)
}

func (m *MDM) checkHealthAnomalies(deviceID string, metrics *models.HealthMetrics) {
	device, err := m.Registry.Get(deviceID)
	if err != nil {
		return
	}

	anomalies := map[string]any{}
	if metrics.EmergencyAlerts.Today >= healthAnomalyAlertsPerDay {
		anomalies["emergencyAlertsToday"] = metrics.EmergencyAlerts.Today
	}
	if metrics.MedicationCompliance > 0 && metrics.MedicationCompliance < healthAnomalyComplianceFloor {
		anomalies["medicationCompliance"] = metrics.MedicationCompliance
	}
	if len(anomalies) == 0 {
		return
	}

	m.Notifier.NotifyFamily(device.SeniorID, models.FamilyEvent{
		Type:      models.FamilyEventHealthAnomaly,
		DeviceID:  deviceID,
		SeniorID:  device.SeniorID,
		Data:      anomalies,
		Timestamp: time.Now(),
	})
}

func (m *MDM) saveAlertRecord(alert *models.EmergencyAlert) {
	record := models.AlertRecord{
		ID:        alert.ID,
		DeviceID:  alert.DeviceID,
		SeniorID:  alert.SeniorID,
		AlertType: alert.AlertType,
		Message:   alert.Message,
		Location:  alert.Location,
		Vitals:    alert.Vitals,
		Timestamp: alert.Timestamp,
		Status:    alert.Status,
	}
	if err := m.Db.Conn.Create(&record).Error; err != nil {
		common.GetLogger().Error("Failed to persist alert record",
			zap.String("alert_id", alert.ID), zap.Error(err))
	}
}

func decodeHealthUpdate(data map[string]any) (models.HealthUpdate, error) {
	var update models.HealthUpdate
	raw, err := json.Marshal(data)
	if err != nil {
		return update, err
	}
	err = json.Unmarshal(raw, &update)
	return update, err
}

// commandEnvelope wraps a command for the server->device channel push.
func commandEnvelope(command *models.RemoteCommand) ws.Envelope {
	return ws.Envelope{
		Type:      ws.TypeCommand,
		Command:   command,
		Timestamp: time.Now(),
	}
}
