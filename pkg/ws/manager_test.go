package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
	_ "seniorcarehub.xyz/tablet-mdm-service/pkg/testing"
)

type fakeLink struct {
	mu     sync.Mutex
	pushed [][]byte
	closed bool
}

func (f *fakeLink) Push(data []byte, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, data)
	return nil
}

func (f *fakeLink) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeLink) Envelopes(t *testing.T) []Envelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	envelopes := make([]Envelope, 0, len(f.pushed))
	for _, data := range f.pushed {
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		envelopes = append(envelopes, env)
	}
	return envelopes
}

func (f *fakeLink) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeBackend struct {
	mu            sync.Mutex
	deviceAuthOK  bool
	familyAuthOK  bool
	connected     []string
	disconnected  []string
	responses     map[string]string
	healthUpdates map[string]map[string]any
}

func newFakeBackend(deviceAuthOK, familyAuthOK bool) *fakeBackend {
	return &fakeBackend{
		deviceAuthOK:  deviceAuthOK,
		familyAuthOK:  familyAuthOK,
		responses:     make(map[string]string),
		healthUpdates: make(map[string]map[string]any),
	}
}

func (f *fakeBackend) AuthenticateDevice(deviceID, authToken string) bool { return f.deviceAuthOK }
func (f *fakeBackend) AuthenticateFamily(familyID, authToken string) bool { return f.familyAuthOK }

func (f *fakeBackend) DeviceConnected(deviceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, deviceID)
}

func (f *fakeBackend) DeviceDisconnected(deviceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, deviceID)
}

func (f *fakeBackend) CommandResponse(commandID, status string, result map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[commandID] = status
}

func (f *fakeBackend) HealthUpdate(deviceID string, healthData map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthUpdates[deviceID] = healthData
}

func TestAttachDeviceSupersedesOldChannel(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)

	first := &fakeLink{}
	second := &fakeLink{}

	mgr.AttachDevice("device-1", first)
	mgr.AttachDevice("device-1", second)

	assert.True(t, first.Closed())
	envelopes := first.Envelopes(t)
	require.Len(t, envelopes, 1)
	assert.Equal(t, TypeConnectionReplaced, envelopes[0].Type)

	assert.True(t, mgr.IsConnected("device-1"))
	assert.Equal(t, 1, mgr.ConnectedDeviceCount())

	// pushes go to the replacement channel
	assert.True(t, mgr.Send("device-1", Envelope{Type: TypeCommand}))
	assert.Len(t, second.Envelopes(t), 1)
	assert.Len(t, first.Envelopes(t), 1)
}

func TestDetachSupersededLinkKeepsDeviceOnline(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)

	first := &fakeLink{}
	second := &fakeLink{}

	mgr.AttachDevice("device-1", first)
	mgr.AttachDevice("device-1", second)

	// the old channel closing must not mark the fresh one offline
	mgr.Detach(first)
	assert.True(t, mgr.IsConnected("device-1"))
	assert.Empty(t, backend.disconnected)

	mgr.Detach(second)
	assert.False(t, mgr.IsConnected("device-1"))
	assert.Equal(t, []string{"device-1"}, backend.disconnected)
}

func TestAttachDeviceRebindReleasesOldIdentity(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	mgr.AttachDevice("device-1", link)
	mgr.AttachDevice("device-2", link)

	// the old binding must not linger once the link claims a new id
	assert.False(t, mgr.IsConnected("device-1"))
	assert.True(t, mgr.IsConnected("device-2"))
	assert.Equal(t, 1, mgr.ConnectedDeviceCount())

	mgr.Detach(link)
	assert.False(t, mgr.IsConnected("device-2"))
	assert.Equal(t, []string{"device-2"}, backend.disconnected)
}

func TestSendWithoutChannel(t *testing.T) {
	common.SetTestLoggerNop()

	mgr := NewManager(DefaultConfig(), newFakeBackend(true, true))
	assert.False(t, mgr.Send("device-1", Envelope{Type: TypeCommand}))
}

func TestSendFamilyReachesEveryChannel(t *testing.T) {
	common.SetTestLoggerNop()

	mgr := NewManager(DefaultConfig(), newFakeBackend(true, true))

	phone := &fakeLink{}
	laptop := &fakeLink{}
	mgr.AttachFamily("family-1", phone)
	mgr.AttachFamily("family-1", laptop)

	mgr.SendFamily("family-1", Envelope{Type: TypeFamilyEvent, FamilyID: "family-1"})

	assert.Len(t, phone.Envelopes(t), 1)
	assert.Len(t, laptop.Envelopes(t), 1)

	mgr.Detach(phone)
	mgr.SendFamily("family-1", Envelope{Type: TypeFamilyEvent, FamilyID: "family-1"})
	assert.Len(t, phone.Envelopes(t), 1)
	assert.Len(t, laptop.Envelopes(t), 2)
}

func TestDispatchDeviceConnect(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	mgr.dispatch(link, Envelope{Type: TypeDeviceConnect, DeviceID: "device-1", AuthToken: "cert"})

	assert.Equal(t, []string{"device-1"}, backend.connected)
	assert.True(t, mgr.IsConnected("device-1"))

	envelopes := link.Envelopes(t)
	require.Len(t, envelopes, 1)
	assert.Equal(t, TypeConnectionConfirmed, envelopes[0].Type)
	assert.Equal(t, "device-1", envelopes[0].DeviceID)
}

func TestDispatchDeviceConnectRejected(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(false, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	mgr.dispatch(link, Envelope{Type: TypeDeviceConnect, DeviceID: "device-1", AuthToken: "forged"})

	assert.Empty(t, backend.connected)
	assert.False(t, mgr.IsConnected("device-1"))
	assert.True(t, link.Closed())

	envelopes := link.Envelopes(t)
	require.Len(t, envelopes, 1)
	assert.Equal(t, TypeConnectionRejected, envelopes[0].Type)
}

func TestDispatchCommandResponse(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	// responses from an unbound channel are dropped
	mgr.dispatch(link, Envelope{Type: TypeCommandResponse, CommandID: "cmd-1", Status: "completed"})
	assert.Empty(t, backend.responses)

	mgr.dispatch(link, Envelope{Type: TypeDeviceConnect, DeviceID: "device-1", AuthToken: "cert"})
	mgr.dispatch(link, Envelope{Type: TypeCommandResponse, CommandID: "cmd-1", Status: "completed"})

	assert.Equal(t, "completed", backend.responses["cmd-1"])
}

func TestDispatchHealthUpdateUsesBoundIdentity(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	mgr.dispatch(link, Envelope{Type: TypeDeviceConnect, DeviceID: "device-1", AuthToken: "cert"})
	mgr.dispatch(link, Envelope{
		Type:       TypeHealthUpdate,
		DeviceID:   "spoofed-device",
		HealthData: map[string]any{"medicationCompliance": 80.0},
	})

	assert.Contains(t, backend.healthUpdates, "device-1")
	assert.NotContains(t, backend.healthUpdates, "spoofed-device")
}

func TestDispatchFamilyConnect(t *testing.T) {
	common.SetTestLoggerNop()

	backend := newFakeBackend(true, true)
	mgr := NewManager(DefaultConfig(), backend)
	link := &fakeLink{}

	mgr.dispatch(link, Envelope{Type: TypeFamilyConnect, FamilyID: "family-1", AuthToken: "session"})

	envelopes := link.Envelopes(t)
	require.Len(t, envelopes, 1)
	assert.Equal(t, TypeConnectionConfirmed, envelopes[0].Type)
	assert.Equal(t, "family-1", envelopes[0].FamilyID)

	mgr.SendFamily("family-1", Envelope{Type: TypeFamilyEvent})
	assert.Len(t, link.Envelopes(t), 2)
}

func TestLinkPushTimesOutWhenBufferFull(t *testing.T) {
	common.SetTestLoggerNop()

	link := newWsLink(nil, 1)

	require.NoError(t, link.Push([]byte("one"), 10*time.Millisecond))

	start := time.Now()
	err := link.Push([]byte("two"), 50*time.Millisecond)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
