package mdm

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
	_ "seniorcarehub.xyz/tablet-mdm-service/pkg/testing"
)

func TestEnrollWithValidCode(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	code, err := mdmObj.CreateEnrollmentCode(seniorID, "Margaret")
	require.NoError(t, err)

	device, err := mdmObj.Registry.Enroll(code, models.DeviceInfo{
		Model:      "CareTab 10",
		OSVersion:  "14",
		AppVersion: "2.1.0",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DeviceStatusOnline, device.Status)
	assert.Equal(t, seniorID, device.SeniorID)
	assert.Equal(t, "Margaret", device.SeniorName)
	assert.Equal(t, 100.0, device.BatteryLevel)

	// default settings
	assert.True(t, device.Settings.KioskMode)
	assert.True(t, device.Settings.MedicationReminders)
	assert.Equal(t, "22:00", device.Settings.QuietHours.StartTime)
	assert.Equal(t, "07:00", device.Settings.QuietHours.EndTime)
	assert.Equal(t, "large", device.Settings.Accessibility.FontSize)
	assert.Equal(t, []string{"com.seniorcarehub.android"}, device.Settings.Restrictions.AllowedApps)

	// write-through snapshot lands in the store
	var snapshot models.DeviceSnapshot
	err = mdmObj.Db.Conn.Where("device_id = ?", device.DeviceID).First(&snapshot).Error
	require.NoError(t, err)
	assert.Equal(t, seniorID, snapshot.SeniorID)
}

func TestEnrollCodeIsSingleUse(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	code, err := mdmObj.CreateEnrollmentCode(uuid.NewString(), "Harold")
	require.NoError(t, err)

	_, err = mdmObj.Registry.Enroll(code, models.DeviceInfo{Model: "CareTab 10"})
	require.NoError(t, err)

	_, err = mdmObj.Registry.Enroll(code, models.DeviceInfo{Model: "CareTab 10"})
	assert.ErrorIs(t, err, ErrInvalidEnrollment)
}

func TestEnrollCodeConcurrentConsumption(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	code, err := mdmObj.CreateEnrollmentCode(uuid.NewString(), "Harold")
	require.NoError(t, err)

	const attempts = 8

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for n := 0; n < attempts; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mdmObj.Registry.Enroll(code, models.DeviceInfo{Model: "CareTab 10"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var enrolled int
	for err := range results {
		if err == nil {
			enrolled++
		} else {
			assert.ErrorIs(t, err, ErrInvalidEnrollment)
		}
	}
	assert.Equal(t, 1, enrolled)
}

func TestEnrollWithUnknownCode(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	_, err := mdmObj.Registry.Enroll("NOPE42", models.DeviceInfo{Model: "CareTab 10"})
	assert.ErrorIs(t, err, ErrInvalidEnrollment)
}

func TestUpdateHeartbeat(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := mustEnrollDevice(t, mdmObj, uuid.NewString(), "Margaret")

	before, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	err = mdmObj.Registry.UpdateHeartbeat(deviceID, models.HeartbeatUpdate{
		BatteryLevel: 42.5,
		Status:       models.DeviceStatusLowBattery,
		Location: &models.Location{
			Latitude:  37.77,
			Longitude: -122.42,
			Accuracy:  8,
		},
	})
	require.NoError(t, err)

	after, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)

	assert.True(t, after.LastHeartbeat.After(before.LastHeartbeat))
	assert.Equal(t, 42.5, after.BatteryLevel)
	assert.Equal(t, models.DeviceStatusLowBattery, after.Status)
	require.NotNil(t, after.Location)
	assert.Equal(t, 37.77, after.Location.Latitude)
	assert.False(t, after.Location.Timestamp.IsZero())
}

func TestUpdateHeartbeatIgnoresInvalidStatus(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := mustEnrollDevice(t, mdmObj, uuid.NewString(), "Margaret")

	err := mdmObj.Registry.UpdateHeartbeat(deviceID, models.HeartbeatUpdate{
		BatteryLevel: 90,
		Status:       models.DeviceStatus("bogus"),
	})
	require.NoError(t, err)

	device, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOnline, device.Status)
}

func TestUpdateHeartbeatUnknownDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	err := mdmObj.Registry.UpdateHeartbeat(uuid.NewString(), models.HeartbeatUpdate{BatteryLevel: 50})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestMergeSettings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := mustEnrollDevice(t, mdmObj, uuid.NewString(), "Margaret")

	kiosk := false
	quietEnabled := false
	merged, err := mdmObj.Registry.MergeSettings(deviceID, models.SettingsPatch{
		KioskMode: &kiosk,
		QuietHours: &models.QuietHoursPatch{
			Enabled: &quietEnabled,
		},
	})
	require.NoError(t, err)

	assert.False(t, merged.KioskMode)
	assert.False(t, merged.QuietHours.Enabled)
	// untouched fields survive the merge
	assert.Equal(t, "22:00", merged.QuietHours.StartTime)
	assert.True(t, merged.MedicationReminders)
	assert.Equal(t, "large", merged.Accessibility.FontSize)
}

func TestApplyHealthUpdate(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := mustEnrollDevice(t, mdmObj, uuid.NewString(), "Margaret")

	compliance := 87.5
	metrics, err := mdmObj.Registry.ApplyHealthUpdate(deviceID, models.HealthUpdate{
		MedicationCompliance: &compliance,
		VitalSigns: &models.VitalSigns{
			HeartRate: 72,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 87.5, metrics.MedicationCompliance)
	assert.Equal(t, 72.0, metrics.VitalSigns.HeartRate)
}
