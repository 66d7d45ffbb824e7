package mdm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
	_ "seniorcarehub.xyz/tablet-mdm-service/pkg/testing"
)

func backdateHeartbeat(m *MDM, deviceID string, age time.Duration) {
	m.devMu.Lock()
	defer m.devMu.Unlock()
	m.devices[deviceID].LastHeartbeat = time.Now().Add(-age)
}

func TestSweepMarksSilentDeviceOffline(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, mockNotifier := GetMockMDMWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Margaret")
	backdateHeartbeat(mdmObj, deviceID, 10*time.Minute)

	mockNotifier.EXPECT().
		NotifyFamily(gomock.Eq(seniorID), gomock.Any()).
		Do(func(_ string, event models.FamilyEvent) {
			assert.Equal(t, models.FamilyEventDeviceOffline, event.Type)
			assert.Equal(t, deviceID, event.DeviceID)
			assert.Equal(t, "Margaret", event.Data["seniorName"])
		}).
		Times(1)

	transitioned := mdmObj.SweepOffline()

	found := false
	for _, device := range transitioned {
		if device.DeviceID == deviceID {
			found = true
		}
	}
	assert.True(t, found)

	device, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOffline, device.Status)
}

func TestSweepNotifiesOncePerTransition(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, mockNotifier := GetMockMDMWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Harold")
	backdateHeartbeat(mdmObj, deviceID, 10*time.Minute)

	// the second sweep sees a device that is already offline and stays quiet
	mockNotifier.EXPECT().
		NotifyFamily(gomock.Eq(seniorID), gomock.Any()).
		Times(1)

	mdmObj.SweepOffline()
	mdmObj.SweepOffline()
}

func TestSweepSkipsFreshDevice(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, mockNotifier := GetMockMDMWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Harold")

	mockNotifier.EXPECT().
		NotifyFamily(gomock.Eq(seniorID), gomock.Any()).
		Times(0)

	mdmObj.SweepOffline()

	device, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOnline, device.Status)
}

func TestHeartbeatDuringSweepWindowIsNotClobbered(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, mockNotifier := GetMockMDMWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Harold")
	backdateHeartbeat(mdmObj, deviceID, 10*time.Minute)

	// a heartbeat lands before the sweep runs; the device must stay online
	err := mdmObj.Registry.UpdateHeartbeat(deviceID, models.HeartbeatUpdate{BatteryLevel: 55})
	require.NoError(t, err)

	mockNotifier.EXPECT().
		NotifyFamily(gomock.Eq(seniorID), gomock.Any()).
		Times(0)

	mdmObj.SweepOffline()

	device, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOnline, device.Status)
}
