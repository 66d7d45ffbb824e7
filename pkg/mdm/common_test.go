package mdm

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/db"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/mdm/mocks"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/models"
)

func GetMockMDMWithMemorySqliteDialector(t *testing.T, useMockRegistry, useMockQueue, useMockGate, useMockNotifier bool) (
	*gomock.Controller,
	*MDM,
	*mocks.MockIRegistry,
	*mocks.MockIQueue,
	*mocks.MockIGate,
	*mocks.MockINotifier,
) {
	ctrl := gomock.NewController(t)

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	mockQueue := mocks.NewMockIQueue(ctrl)
	mockGate := mocks.NewMockIGate(ctrl)
	mockNotifier := mocks.NewMockINotifier(ctrl)

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	mdmInstance := NewMDM(dbInstance)

	registryService := mdmInstance.Registry
	if useMockRegistry {
		registryService = mockRegistry
	}

	queueService := mdmInstance.Queue
	if useMockQueue {
		queueService = mockQueue
	}

	gateService := mdmInstance.Gate
	if useMockGate {
		gateService = mockGate
	}

	notifierService := mdmInstance.Notifier
	if useMockNotifier {
		notifierService = mockNotifier
	}

	mdmInstance.WithServices(ServiceOpts{
		Registry: registryService,
		Queue:    queueService,
		Gate:     gateService,
		Notifier: notifierService,
	})

	return ctrl, mdmInstance, mockRegistry, mockQueue, mockGate, mockNotifier
}

// fakeChannel stands in for the websocket manager in queue and facade
// tests: it records every envelope pushed per device.
type fakeChannel struct {
	mu        sync.Mutex
	connected map[string]bool
	sent      map[string][]any
	failSend  bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		connected: make(map[string]bool),
		sent:      make(map[string][]any),
	}
}

func (f *fakeChannel) Connect(deviceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected[deviceID] = true
}

func (f *fakeChannel) IsConnected(deviceID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected[deviceID]
}

func (f *fakeChannel) Send(deviceID string, envelope any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return false
	}
	f.sent[deviceID] = append(f.sent[deviceID], envelope)
	return true
}

func (f *fakeChannel) SentTo(deviceID string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[deviceID]
}

// fakeDirectory maps seniors to family accounts without touching the db.
type fakeDirectory struct {
	links map[string][]string
}

func (f *fakeDirectory) IsLinked(seniorID, familyID string) bool {
	for _, id := range f.links[seniorID] {
		if id == familyID {
			return true
		}
	}
	return false
}

func (f *fakeDirectory) FamiliesOf(seniorID string) []string {
	return f.links[seniorID]
}

// fakeFamilySender records envelopes pushed to family channels.
type fakeFamilySender struct {
	mu   sync.Mutex
	sent map[string][]any
}

func newFakeFamilySender() *fakeFamilySender {
	return &fakeFamilySender{sent: make(map[string][]any)}
}

func (f *fakeFamilySender) SendFamily(familyID string, envelope any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[familyID] = append(f.sent[familyID], envelope)
}

func (f *fakeFamilySender) SentTo(familyID string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[familyID]
}

func mustEnrollDevice(t *testing.T, m *MDM, seniorID, seniorName string) string {
	t.Helper()

	code, err := m.CreateEnrollmentCode(seniorID, seniorName)
	if err != nil {
		t.Fatalf("failed to create enrollment code: %v", err)
	}

	device, err := m.Registry.Enroll(code, models.DeviceInfo{
		Model:      "CareTab 10",
		OSVersion:  "14",
		AppVersion: "2.1.0",
	})
	if err != nil {
		t.Fatalf("failed to enroll device: %v", err)
	}
	return device.DeviceID
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
