package ws

import "time"

// Envelope is the single JSON message shape exchanged over a live channel,
// in both directions. Which fields are set depends on Type.
type Envelope struct {
	Type       string         `json:"type"`
	DeviceID   string         `json:"deviceId,omitempty"`
	FamilyID   string         `json:"familyId,omitempty"`
	AuthToken  string         `json:"authToken,omitempty"`
	CommandID  string         `json:"commandId,omitempty"`
	Status     string         `json:"status,omitempty"`
	Command    any            `json:"command,omitempty"`
	Result     map[string]any `json:"result,omitempty"`
	HealthData map[string]any `json:"healthData,omitempty"`
	Event      any            `json:"event,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

const (
	TypeDeviceConnect       = "device_connect"
	TypeFamilyConnect       = "family_connect"
	TypeConnectionConfirmed = "connection_confirmed"
	TypeConnectionRejected  = "connection_rejected"
	TypeConnectionReplaced  = "connection_replaced"
	TypeCommand             = "command"
	TypeCommandResponse     = "command_response"
	TypeHealthUpdate        = "health_update"
	TypeFamilyEvent         = "family_event"
)

// Backend is the coordination logic behind the transport: it owns
// authentication and reacts to channel lifecycle and inbound messages.
type Backend interface {
	AuthenticateDevice(deviceID, authToken string) bool
	AuthenticateFamily(familyID, authToken string) bool
	DeviceConnected(deviceID string)
	DeviceDisconnected(deviceID string)
	CommandResponse(commandID, status string, result map[string]any)
	HealthUpdate(deviceID string, healthData map[string]any)
}
