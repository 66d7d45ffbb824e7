package mdm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	_ "seniorcarehub.xyz/tablet-mdm-service/pkg/testing"
)

func TestAssertOwnership(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	familyID := uuid.NewString()
	otherFamilyID := uuid.NewString()

	require.NoError(t, mdmObj.LinkFamily(seniorID, familyID))

	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Margaret")
	device, err := mdmObj.Registry.Get(deviceID)
	require.NoError(t, err)

	assert.NoError(t, mdmObj.Gate.AssertOwnership(device, familyID))
	assert.ErrorIs(t, mdmObj.Gate.AssertOwnership(device, otherFamilyID), ErrAccessDenied)
	assert.ErrorIs(t, mdmObj.Gate.AssertOwnership(device, ""), ErrAccessDenied)
	assert.ErrorIs(t, mdmObj.Gate.AssertOwnership(nil, familyID), ErrAccessDenied)
}

func TestListFamilyDevicesNeverLeaksForeignDevices(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	seniorA := uuid.NewString()
	seniorB := uuid.NewString()
	familyA := uuid.NewString()
	familyB := uuid.NewString()

	require.NoError(t, mdmObj.LinkFamily(seniorA, familyA))
	require.NoError(t, mdmObj.LinkFamily(seniorB, familyB))

	deviceA := mustEnrollDevice(t, mdmObj, seniorA, "Margaret")
	deviceB := mustEnrollDevice(t, mdmObj, seniorB, "Harold")

	listed := mdmObj.ListFamilyDevices(familyA)

	ids := map[string]bool{}
	for _, device := range listed {
		ids[device.DeviceID] = true
	}
	assert.True(t, ids[deviceA])
	assert.False(t, ids[deviceB])
}

func TestHandleFamilyCommandRejectsForeignFamily(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, mdmObj, _, _, _, _ := GetMockMDMWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	seniorID := uuid.NewString()
	require.NoError(t, mdmObj.LinkFamily(seniorID, uuid.NewString()))

	deviceID := mustEnrollDevice(t, mdmObj, seniorID, "Margaret")

	_, err := mdmObj.HandleFamilyCommand(uuid.NewString(), deviceID, "lock_device", nil)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
