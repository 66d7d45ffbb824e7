package mdm

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

func newID() string {
	return uuid.NewString()
}

func registryLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMRegistry),
	)
}

// CreateEnrollmentCode issues a fresh single-use code binding the next
// enrolling tablet to the given senior.
func (m *MDM) CreateEnrollmentCode(seniorID, seniorName string) (string, error) {
	code := strings.ToUpper(uuid.NewString()[:6])
	record := models.EnrollmentCode{
		Code:       code,
		SeniorID:   seniorID,
		SeniorName: seniorName,
		CreatedAt:  time.Now(),
	}
	if err := m.Db.Conn.Create(&record).Error; err != nil {
		return "", err
	}
	return code, nil
}

func (m *MDM) enroll(code string, info models.DeviceInfo) (*models.Device, error) {
	logger := registryLogger()

	// consuming the code is a single guarded write so two concurrent
	// enrolls with the same code cannot both pass a read-then-write check
	res := m.Db.Conn.Model(&models.EnrollmentCode{}).
		Where("code = ? AND consumed = ?", code, false).
		Update("consumed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidEnrollment
	}

	var enrollment models.EnrollmentCode
	if err := m.Db.Conn.First(&enrollment, "code = ?", code).Error; err != nil {
		return nil, err
	}

	deviceID := info.DeviceID
	if deviceID == "" {
		deviceID = newID()
	}

	device := &models.Device{
		DeviceID:      deviceID,
		SeniorID:      enrollment.SeniorID,
		SeniorName:    enrollment.SeniorName,
		Model:         info.Model,
		OSVersion:     info.OSVersion,
		AppVersion:    info.AppVersion,
		Status:        models.DeviceStatusOnline,
		LastHeartbeat: time.Now(),
		BatteryLevel:  100,
		Settings:      defaultSettings(),
		HealthMetrics: defaultHealthMetrics(),
	}

	m.devMu.Lock()
	m.devices[device.DeviceID] = device
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)

	logger.Info("Device enrolled",
		zap.String("device_id", device.DeviceID),
		zap.String("senior_id", device.SeniorID),
		zap.String("model", device.Model))

	return copyDevice(device), nil
}

func (m *MDM) getDevice(deviceID string) (*models.Device, error) {
	m.devMu.RLock()
	defer m.devMu.RUnlock()

	device, exists := m.devices[deviceID]
	if !exists {
		return nil, ErrDeviceNotFound
	}
	return copyDevice(device), nil
}

func (m *MDM) updateHeartbeat(deviceID string, hb models.HeartbeatUpdate) error {
	m.devMu.Lock()
	device, exists := m.devices[deviceID]
	if !exists {
		m.devMu.Unlock()
		return ErrDeviceNotFound
	}

	device.LastHeartbeat = time.Now()
	device.BatteryLevel = hb.BatteryLevel
	if hb.Status.Valid() {
		device.Status = hb.Status
	}
	if hb.Location != nil {
		loc := *hb.Location
		loc.Timestamp = time.Now()
		device.Location = &loc
	}
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)

	registryLogger().Debug("Heartbeat applied",
		zap.String("device_id", deviceID),
		zap.Float64("battery_level", hb.BatteryLevel),
		zap.String("status", string(snapshot.Status)))

	return nil
}

func (m *MDM) mergeSettings(deviceID string, patch models.SettingsPatch) (*models.TabletSettings, error) {
	m.devMu.Lock()
	device, exists := m.devices[deviceID]
	if !exists {
		m.devMu.Unlock()
		return nil, ErrDeviceNotFound
	}

	applySettingsPatch(&device.Settings, patch)
	merged := device.Settings
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)

	registryLogger().Info("Settings merged", zap.String("device_id", deviceID))

	return &merged, nil
}

func (m *MDM) applyHealthUpdate(deviceID string, update models.HealthUpdate) (*models.HealthMetrics, error) {
	m.devMu.Lock()
	device, exists := m.devices[deviceID]
	if !exists {
		m.devMu.Unlock()
		return nil, ErrDeviceNotFound
	}

	if update.LastCheckIn != nil {
		device.HealthMetrics.LastCheckIn = *update.LastCheckIn
	}
	if update.MedicationCompliance != nil {
		device.HealthMetrics.MedicationCompliance = *update.MedicationCompliance
	}
	if update.DailyActivity != nil {
		device.HealthMetrics.DailyActivity = *update.DailyActivity
	}
	if update.VitalSigns != nil {
		device.HealthMetrics.VitalSigns = *update.VitalSigns
	}
	metrics := device.HealthMetrics
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)

	return &metrics, nil
}

func (m *MDM) setStatus(deviceID string, status models.DeviceStatus) error {
	m.devMu.Lock()
	device, exists := m.devices[deviceID]
	if !exists {
		m.devMu.Unlock()
		return ErrDeviceNotFound
	}
	device.Status = status
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)
	return nil
}

func (m *MDM) incrementAlertCounts(deviceID string) error {
	m.devMu.Lock()
	device, exists := m.devices[deviceID]
	if !exists {
		m.devMu.Unlock()
		return ErrDeviceNotFound
	}
	device.HealthMetrics.EmergencyAlerts.Today++
	device.HealthMetrics.EmergencyAlerts.ThisWeek++
	device.HealthMetrics.EmergencyAlerts.ThisMonth++
	snapshot := *device
	m.devMu.Unlock()

	m.saveSnapshot(&snapshot)
	return nil
}

// markStale transitions every device silent for longer than threshold to
// offline and returns the transitioned devices. The check and the write
// happen under one lock so a heartbeat landing mid-sweep cannot be
// clobbered back to offline.
func (m *MDM) markStale(threshold time.Duration) []models.Device {
	now := time.Now()
	var transitioned []models.Device

	m.devMu.Lock()
	for _, device := range m.devices {
		if device.Status == models.DeviceStatusOffline {
			continue
		}
		if now.Sub(device.LastHeartbeat) <= threshold {
			continue
		}
		device.Status = models.DeviceStatusOffline
		transitioned = append(transitioned, *device)
	}
	m.devMu.Unlock()

	for i := range transitioned {
		m.saveSnapshot(&transitioned[i])
	}
	return transitioned
}

func (m *MDM) listDevices() []models.Device {
	m.devMu.RLock()
	defer m.devMu.RUnlock()

	devices := make([]models.Device, 0, len(m.devices))
	for _, device := range m.devices {
		devices = append(devices, *copyDevice(device))
	}
	return devices
}

// restoreDevices loads persisted snapshots into the live map at startup.
// Connections do not survive a restart, so the offline sweep reconciles
// statuses shortly after.
func (m *MDM) restoreDevices() {
	var snapshots []models.DeviceSnapshot
	if err := m.Db.Conn.Find(&snapshots).Error; err != nil {
		registryLogger().Error("Failed to restore device snapshots", zap.Error(err))
		return
	}

	m.devMu.Lock()
	for _, s := range snapshots {
		m.devices[s.DeviceID] = &models.Device{
			DeviceID:      s.DeviceID,
			SeniorID:      s.SeniorID,
			SeniorName:    s.SeniorName,
			Model:         s.Model,
			OSVersion:     s.OSVersion,
			AppVersion:    s.AppVersion,
			Status:        models.DeviceStatus(s.Status),
			LastHeartbeat: s.LastHeartbeat,
			BatteryLevel:  s.BatteryLevel,
			Location:      s.Location,
			Settings:      s.Settings,
			HealthMetrics: s.HealthMetrics,
		}
	}
	count := len(m.devices)
	m.devMu.Unlock()

	if count > 0 {
		registryLogger().Info("Restored device snapshots", zap.Int("count", count))
	}
}

func (m *MDM) saveSnapshot(device *models.Device) {
	snapshot := models.DeviceSnapshot{
		DeviceID:      device.DeviceID,
		SeniorID:      device.SeniorID,
		SeniorName:    device.SeniorName,
		Model:         device.Model,
		OSVersion:     device.OSVersion,
		AppVersion:    device.AppVersion,
		Status:        string(device.Status),
		LastHeartbeat: device.LastHeartbeat,
		BatteryLevel:  device.BatteryLevel,
		Location:      device.Location,
		Settings:      device.Settings,
		HealthMetrics: device.HealthMetrics,
	}

	err := m.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&snapshot).Error

	if err != nil {
		registryLogger().Error("Failed to persist device snapshot",
			zap.String("device_id", device.DeviceID), zap.Error(err))
	}
}

func copyDevice(device *models.Device) *models.Device {
	c := *device
	if device.Location != nil {
		loc := *device.Location
		c.Location = &loc
	}
	return &c
}

func defaultSettings() models.TabletSettings {
	return models.TabletSettings{
		KioskMode:           true,
		EmergencyContacts:   []models.EmergencyContact{},
		MedicationReminders: true,
		QuietHours: models.QuietHours{
			Enabled:   true,
			StartTime: "22:00",
			EndTime:   "07:00",
		},
		Accessibility: models.Accessibility{
			FontSize:        "large",
			HighContrast:    false,
			VoiceAssistance: false,
			HapticFeedback:  true,
		},
		Restrictions: models.Restrictions{
			AllowedApps:     []string{"com.seniorcarehub.android"},
			BlockedWebsites: []string{},
			ScreenTimeLimit: 0, // unlimited
		},
	}
}

func defaultHealthMetrics() models.HealthMetrics {
	return models.HealthMetrics{
		LastCheckIn: time.Now(),
	}
}

func applySettingsPatch(settings *models.TabletSettings, patch models.SettingsPatch) {
	if patch.KioskMode != nil {
		settings.KioskMode = *patch.KioskMode
	}
	if patch.EmergencyContacts != nil {
		settings.EmergencyContacts = *patch.EmergencyContacts
	}
	if patch.MedicationReminders != nil {
		settings.MedicationReminders = *patch.MedicationReminders
	}
	if patch.QuietHours != nil {
		if patch.QuietHours.Enabled != nil {
			settings.QuietHours.Enabled = *patch.QuietHours.Enabled
		}
		if patch.QuietHours.StartTime != nil {
			settings.QuietHours.StartTime = *patch.QuietHours.StartTime
		}
		if patch.QuietHours.EndTime != nil {
			settings.QuietHours.EndTime = *patch.QuietHours.EndTime
		}
	}
	if patch.Accessibility != nil {
		if patch.Accessibility.FontSize != nil {
			settings.Accessibility.FontSize = *patch.Accessibility.FontSize
		}
		if patch.Accessibility.HighContrast != nil {
			settings.Accessibility.HighContrast = *patch.Accessibility.HighContrast
		}
		if patch.Accessibility.VoiceAssistance != nil {
			settings.Accessibility.VoiceAssistance = *patch.Accessibility.VoiceAssistance
		}
		if patch.Accessibility.HapticFeedback != nil {
			settings.Accessibility.HapticFeedback = *patch.Accessibility.HapticFeedback
		}
	}
	if patch.Restrictions != nil {
		if patch.Restrictions.AllowedApps != nil {
			settings.Restrictions.AllowedApps = *patch.Restrictions.AllowedApps
		}
		if patch.Restrictions.BlockedWebsites != nil {
			settings.Restrictions.BlockedWebsites = *patch.Restrictions.BlockedWebsites
		}
		if patch.Restrictions.ScreenTimeLimit != nil {
			settings.Restrictions.ScreenTimeLimit = *patch.Restrictions.ScreenTimeLimit
		}
	}
}

// IRegistryImpl adapts the registry methods to the IRegistry interface.
type IRegistryImpl struct {
	mdm *MDM
}

func (ir *IRegistryImpl) Enroll(code string, info models.DeviceInfo) (*models.Device, error) {
	return ir.mdm.enroll(code, info)
}

func (ir *IRegistryImpl) Get(deviceID string) (*models.Device, error) {
	return ir.mdm.getDevice(deviceID)
}

func (ir *IRegistryImpl) UpdateHeartbeat(deviceID string, hb models.HeartbeatUpdate) error {
	return ir.mdm.updateHeartbeat(deviceID, hb)
}

func (ir *IRegistryImpl) MergeSettings(deviceID string, patch models.SettingsPatch) (*models.TabletSettings, error) {
	return ir.mdm.mergeSettings(deviceID, patch)
}

func (ir *IRegistryImpl) ApplyHealthUpdate(deviceID string, update models.HealthUpdate) (*models.HealthMetrics, error) {
	return ir.mdm.applyHealthUpdate(deviceID, update)
}

func (ir *IRegistryImpl) SetStatus(deviceID string, status models.DeviceStatus) error {
	return ir.mdm.setStatus(deviceID, status)
}

func (ir *IRegistryImpl) IncrementAlertCounts(deviceID string) error {
	return ir.mdm.incrementAlertCounts(deviceID)
}

func (ir *IRegistryImpl) MarkStale(threshold time.Duration) []models.Device {
	return ir.mdm.markStale(threshold)
}

func (ir *IRegistryImpl) Devices() []models.Device {
	return ir.mdm.listDevices()
}

func (m *MDM) GetIRegistry() IRegistry {
	return &IRegistryImpl{mdm: m}
}
