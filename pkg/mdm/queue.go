package mdm

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

func queueLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMQueue),
	)
}

// enqueue creates a pending command for the device and attempts one
// synchronous push over its live channel. Delivery failure is absorbed:
// the command stays pending for heartbeat pickup.
func (m *MDM) enqueue(deviceID string, ctype models.CommandType, payload map[string]any) (*models.RemoteCommand, error) {
	logger := queueLogger()

	if _, err := m.getDevice(deviceID); err != nil {
		return nil, err
	}

	command := &models.RemoteCommand{
		ID:        newID(),
		DeviceID:  deviceID,
		Type:      ctype,
		Payload:   payload,
		Status:    models.CommandStatusPending,
		CreatedAt: time.Now(),
	}

	m.cmdMu.Lock()
	m.commands[command.ID] = command
	m.cmdMu.Unlock()

	logger.Info("Command enqueued",
		zap.String("command_id", command.ID),
		zap.String("device_id", deviceID),
		zap.String("type", string(ctype)))

	if m.Channels != nil && m.Channels.IsConnected(deviceID) {
		delivered := m.Channels.Send(deviceID, commandEnvelope(command))

		m.cmdMu.Lock()
		if delivered && command.Status == models.CommandStatusPending {
			command.Status = models.CommandStatusSent
		}
		m.cmdMu.Unlock()

		if delivered {
			logger.Info("Command pushed over live channel", zap.String("command_id", command.ID))
		} else {
			logger.Warn("Live push failed, command stays pending",
				zap.String("command_id", command.ID), zap.Error(ErrDeliveryFailed))
		}
	}

	m.cmdMu.Lock()
	out := copyCommand(command)
	m.cmdMu.Unlock()
	return out, nil
}

// pendingFor returns the device's commands still in pending state, oldest
// first. Statuses are not advanced here; the device acknowledges each
// command through a command_response message.
func (m *MDM) pendingFor(deviceID string) []models.RemoteCommand {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	var pending []models.RemoteCommand
	for _, command := range m.commands {
		if command.DeviceID == deviceID && command.Status == models.CommandStatusPending {
			pending = append(pending, *copyCommand(command))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}

func (m *MDM) getCommand(commandID string) (*models.RemoteCommand, error) {
	m.cmdMu.Lock()
	defer m.cmdMu.Unlock()

	if command, exists := m.commands[commandID]; exists {
		return copyCommand(command), nil
	}
	if archived, exists := m.archive.Get(commandID); exists {
		return &archived, nil
	}
	return nil, ErrCommandNotFound
}

// recordResult advances a command to acknowledged, completed or failed.
// Transitions are one-directional; terminal commands reject further
// updates. Terminal commands leave the live map for the bounded archive
// and are written through to the command_records table.
func (m *MDM) recordResult(commandID string, status models.CommandStatus, result map[string]any) (*models.RemoteCommand, error) {
	switch status {
	case models.CommandStatusAcknowledged, models.CommandStatusCompleted, models.CommandStatusFailed:
	default:
		return nil, ErrInvalidTransition
	}

	m.cmdMu.Lock()
	command, exists := m.commands[commandID]
	if !exists {
		m.cmdMu.Unlock()
		return nil, ErrCommandNotFound
	}
	if command.Status.Terminal() {
		m.cmdMu.Unlock()
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	command.Status = status
	command.ExecutedAt = &now

	resolved := *copyCommand(command)
	if status.Terminal() {
		delete(m.commands, commandID)
		m.archive.Add(commandID, resolved)
	}
	m.cmdMu.Unlock()

	if status.Terminal() {
		m.saveCommandRecord(&resolved, result)
	}

	queueLogger().Info("Command result recorded",
		zap.String("command_id", commandID),
		zap.String("status", string(status)))

	return &resolved, nil
}

func (m *MDM) saveCommandRecord(command *models.RemoteCommand, result map[string]any) {
	record := models.CommandRecord{
		ID:         command.ID,
		DeviceID:   command.DeviceID,
		Type:       string(command.Type),
		Payload:    command.Payload,
		Status:     string(command.Status),
		CreatedAt:  command.CreatedAt,
		ExecutedAt: command.ExecutedAt,
		Result:     result,
	}
	if err := m.Db.Conn.Create(&record).Error; err != nil {
		queueLogger().Error("Failed to archive command record",
			zap.String("command_id", command.ID), zap.Error(err))
	}
}

func copyCommand(command *models.RemoteCommand) *models.RemoteCommand {
	c := *command
	if command.ExecutedAt != nil {
		at := *command.ExecutedAt
		c.ExecutedAt = &at
	}
	return &c
}

// IQueueImpl adapts the queue methods to the IQueue interface.
type IQueueImpl struct {
	mdm *MDM
}

func (iq *IQueueImpl) Enqueue(deviceID string, ctype models.CommandType, payload map[string]any) (*models.RemoteCommand, error) {
	return iq.mdm.enqueue(deviceID, ctype, payload)
}

func (iq *IQueueImpl) PendingFor(deviceID string) []models.RemoteCommand {
	return iq.mdm.pendingFor(deviceID)
}

func (iq *IQueueImpl) Get(commandID string) (*models.RemoteCommand, error) {
	return iq.mdm.getCommand(commandID)
}

func (iq *IQueueImpl) RecordResult(commandID string, status models.CommandStatus, result map[string]any) (*models.RemoteCommand, error) {
	return iq.mdm.recordResult(commandID, status, result)
}

func (m *MDM) GetIQueue() IQueue {
	return &IQueueImpl{mdm: m}
}
