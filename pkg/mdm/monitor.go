package mdm

import (
	"time"

	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

// SweepOffline is the periodic heartbeat monitor pass. Every device
// silent for longer than OfflineAfter and not already offline is
// transitioned exactly once, and its families are notified once per
// transition. Consecutive sweeps over a device that stays offline do
// not notify again.
func (m *MDM) SweepOffline() []models.Device {
	logger := common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMMonitor),
	)

	threshold := m.OfflineAfter
	if threshold <= 0 {
		threshold = DefaultOfflineAfter
	}

	transitioned := m.Registry.MarkStale(threshold)
	for i := range transitioned {
		device := &transitioned[i]

		logger.Info("Device marked offline by sweep",
			zap.String("device_id", device.DeviceID),
			zap.Time("last_heartbeat", device.LastHeartbeat))

		m.Notifier.NotifyFamily(device.SeniorID, models.FamilyEvent{
			Type:     models.FamilyEventDeviceOffline,
			DeviceID: device.DeviceID,
			SeniorID: device.SeniorID,
			Data: map[string]any{
				"seniorName":    device.SeniorName,
				"lastHeartbeat": device.LastHeartbeat,
			},
			Timestamp: time.Now(),
		})
	}
	return transitioned
}
