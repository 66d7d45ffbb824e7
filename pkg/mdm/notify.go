package mdm

import (
	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/ws"
)

func notifyLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameMDMCore,
		zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMNotify),
	)
}

// WsNotifier delivers family events over any live family portal channels
// and logs them. Emergency-services escalation hands off to an external
// dispatch collaborator; here it is recorded at error level so operators
// see every escalation.
type WsNotifier struct {
	Directory FamilyDirectory
	Families  FamilySender
}

func NewWsNotifier(directory FamilyDirectory, families FamilySender) *WsNotifier {
	return &WsNotifier{Directory: directory, Families: families}
}

func (n *WsNotifier) NotifyFamily(seniorID string, event models.FamilyEvent) {
	logger := notifyLogger()

	familyIDs := n.Directory.FamiliesOf(seniorID)
	if len(familyIDs) == 0 {
		logger.Warn("No families linked for senior",
			zap.String("senior_id", seniorID),
			zap.String("event_type", event.Type))
		return
	}

	for _, familyID := range familyIDs {
		if n.Families != nil {
			n.Families.SendFamily(familyID, ws.Envelope{
				Type:      ws.TypeFamilyEvent,
				FamilyID:  familyID,
				Event:     event,
				Timestamp: event.Timestamp,
			})
		}
		logger.Info("Family notified",
			zap.String("family_id", familyID),
			zap.String("event_type", event.Type),
			zap.String("device_id", event.DeviceID))
	}
}

func (n *WsNotifier) NotifyEmergencyServices(alert *models.EmergencyAlert) {
	notifyLogger().Error("Escalating alert to emergency services",
		zap.String("alert_id", alert.ID),
		zap.String("device_id", alert.DeviceID),
		zap.String("alert_type", alert.AlertType),
		zap.String("senior_name", alert.SeniorName))
}
