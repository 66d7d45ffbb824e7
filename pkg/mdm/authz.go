package mdm

import (
	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/db"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

// FamilyDirectory resolves senior-to-family account links. The canonical
// data lives outside this subsystem; the default implementation reads the
// family_links table.
type FamilyDirectory interface {
	IsLinked(seniorID, familyID string) bool
	FamiliesOf(seniorID string) []string
}

type dbFamilyDirectory struct {
	db *db.DB
}

func (d *dbFamilyDirectory) IsLinked(seniorID, familyID string) bool {
	var count int64
	err := d.db.Conn.Model(&models.FamilyLink{}).
		Where("senior_id = ? AND family_id = ?", seniorID, familyID).
		Count(&count).Error
	return err == nil && count > 0
}

func (d *dbFamilyDirectory) FamiliesOf(seniorID string) []string {
	var familyIDs []string
	err := d.db.Conn.Model(&models.FamilyLink{}).
		Where("senior_id = ?", seniorID).
		Pluck("family_id", &familyIDs).Error
	if err != nil {
		return nil
	}
	return familyIDs
}

// LinkFamily records that familyID may manage seniorID's devices.
func (m *MDM) LinkFamily(seniorID, familyID string) error {
	return m.Db.Conn.Create(&models.FamilyLink{SeniorID: seniorID, FamilyID: familyID}).Error
}

func (m *MDM) assertOwnership(device *models.Device, familyID string) error {
	if device == nil || familyID == "" {
		return ErrAccessDenied
	}
	if !m.Directory.IsLinked(device.SeniorID, familyID) {
		common.GetLoggerWith(
			common.LoggerNameMDMCore,
			zap.String(common.LoggerFieldMDMCategory, common.LoggerCategoryMDMAuthz),
		).Warn("Ownership check rejected",
			zap.String("device_id", device.DeviceID),
			zap.String("family_id", familyID))
		return ErrAccessDenied
	}
	return nil
}

// filterOwned keeps only devices whose senior is linked to familyID.
// Devices outside the caller's family scope never leak through.
func (m *MDM) filterOwned(devices []models.Device, familyID string) []models.Device {
	return common.Filter(devices, func(device models.Device) bool {
		return m.Directory.IsLinked(device.SeniorID, familyID)
	})
}

// IGateImpl adapts the gate methods to the IGate interface.
type IGateImpl struct {
	mdm *MDM
}

func (ig *IGateImpl) AssertOwnership(device *models.Device, familyID string) error {
	return ig.mdm.assertOwnership(device, familyID)
}

func (ig *IGateImpl) FilterOwned(devices []models.Device, familyID string) []models.Device {
	return ig.mdm.filterOwned(devices, familyID)
}

func (m *MDM) GetIGate() IGate {
	return &IGateImpl{mdm: m}
}
