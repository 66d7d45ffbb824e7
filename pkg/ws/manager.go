package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"seniorcarehub.xyz/tablet-mdm-service/pkg/common"
)

type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	SendBufferSize  int
	SendTimeout     time.Duration
	WriteWait       time.Duration
	PongWait        time.Duration
	PingInterval    time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		MaxMessageSize:  64 * 1024,
		SendBufferSize:  32,
		SendTimeout:     5 * time.Second,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		PingInterval:    54 * time.Second,
	}
}

// Manager tracks live channels: at most one per device, any number per
// family account. A new device channel supersedes the previous one.
type Manager struct {
	config   *Config
	backend  Backend
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	devices   map[string]Link
	deviceIDs map[Link]string
	families  map[string]map[Link]bool
	familyIDs map[Link]string
}

func NewManager(config *Config, backend Backend) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	return &Manager{
		config:  config,
		backend: backend,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		devices:   make(map[string]Link),
		deviceIDs: make(map[Link]string),
		families:  make(map[string]map[Link]bool),
		familyIDs: make(map[Link]string),
	}
}

func wsLogger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameWsServer)
}

// HandleUpgrade upgrades an HTTP request and runs the channel until it
// closes. The first message must be device_connect or family_connect.
func (mgr *Manager) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := mgr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		wsLogger().Warn("Upgrade failed", zap.Error(err))
		return
	}

	link := newWsLink(conn, mgr.config.SendBufferSize)
	go link.writePump(mgr.config.PingInterval, mgr.config.WriteWait)
	mgr.readLoop(link)
}

func (mgr *Manager) readLoop(link *wsLink) {
	defer func() {
		mgr.Detach(link)
		link.Close()
	}()

	link.conn.SetReadLimit(mgr.config.MaxMessageSize)
	link.conn.SetReadDeadline(time.Now().Add(mgr.config.PongWait))
	link.conn.SetPongHandler(func(string) error {
		link.conn.SetReadDeadline(time.Now().Add(mgr.config.PongWait))
		return nil
	})

	for {
		_, data, err := link.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLogger().Debug("Channel read error", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			wsLogger().Warn("Dropping malformed message", zap.Error(err))
			continue
		}
		mgr.dispatch(link, env)
	}
}

func (mgr *Manager) dispatch(link Link, env Envelope) {
	switch env.Type {
	case TypeDeviceConnect:
		if !mgr.backend.AuthenticateDevice(env.DeviceID, env.AuthToken) {
			wsLogger().Warn("Device channel rejected", zap.String("device_id", env.DeviceID))
			mgr.pushTo(link, Envelope{Type: TypeConnectionRejected, Timestamp: time.Now()})
			link.Close()
			return
		}
		mgr.AttachDevice(env.DeviceID, link)
		mgr.backend.DeviceConnected(env.DeviceID)
		mgr.pushTo(link, Envelope{
			Type:      TypeConnectionConfirmed,
			DeviceID:  env.DeviceID,
			Timestamp: time.Now(),
		})
		wsLogger().Info("Device channel established", zap.String("device_id", env.DeviceID))

	case TypeFamilyConnect:
		if !mgr.backend.AuthenticateFamily(env.FamilyID, env.AuthToken) {
			wsLogger().Warn("Family channel rejected", zap.String("family_id", env.FamilyID))
			mgr.pushTo(link, Envelope{Type: TypeConnectionRejected, Timestamp: time.Now()})
			link.Close()
			return
		}
		mgr.AttachFamily(env.FamilyID, link)
		mgr.pushTo(link, Envelope{
			Type:      TypeConnectionConfirmed,
			FamilyID:  env.FamilyID,
			Timestamp: time.Now(),
		})
		wsLogger().Info("Family channel established", zap.String("family_id", env.FamilyID))

	case TypeCommandResponse:
		if mgr.boundDevice(link) == "" {
			return
		}
		mgr.backend.CommandResponse(env.CommandID, env.Status, env.Result)

	case TypeHealthUpdate:
		// the device identity comes from the bound channel, never from
		// the message body
		deviceID := mgr.boundDevice(link)
		if deviceID == "" {
			return
		}
		mgr.backend.HealthUpdate(deviceID, env.HealthData)

	default:
		wsLogger().Debug("Ignoring message", zap.String("type", env.Type))
	}
}

// AttachDevice binds link as deviceID's live channel. Any previous
// channel is told it was replaced and closed. A link rebinding to a new
// device id gives up its old identity first.
func (mgr *Manager) AttachDevice(deviceID string, link Link) {
	mgr.mu.Lock()
	if prevID, bound := mgr.deviceIDs[link]; bound && prevID != deviceID {
		if mgr.devices[prevID] == link {
			delete(mgr.devices, prevID)
		}
	}
	old := mgr.devices[deviceID]
	if old != nil && old != link {
		delete(mgr.deviceIDs, old)
	}
	mgr.devices[deviceID] = link
	mgr.deviceIDs[link] = deviceID
	mgr.mu.Unlock()

	if old != nil && old != link {
		mgr.pushTo(old, Envelope{
			Type:      TypeConnectionReplaced,
			Reason:    "another channel was opened for this device",
			Timestamp: time.Now(),
		})
		old.Close()
		wsLogger().Info("Device channel superseded", zap.String("device_id", deviceID))
	}
}

func (mgr *Manager) AttachFamily(familyID string, link Link) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if mgr.families[familyID] == nil {
		mgr.families[familyID] = make(map[Link]bool)
	}
	mgr.families[familyID][link] = true
	mgr.familyIDs[link] = familyID
}

// Detach removes link from whichever registry holds it. A device link
// that was already superseded does not mark the device disconnected;
// the replacement channel owns that identity now.
func (mgr *Manager) Detach(link Link) {
	mgr.mu.Lock()
	deviceID, isDevice := mgr.deviceIDs[link]
	if isDevice {
		delete(mgr.deviceIDs, link)
		if mgr.devices[deviceID] == link {
			delete(mgr.devices, deviceID)
		} else {
			isDevice = false
		}
	}
	if familyID, ok := mgr.familyIDs[link]; ok {
		delete(mgr.familyIDs, link)
		if members := mgr.families[familyID]; members != nil {
			delete(members, link)
			if len(members) == 0 {
				delete(mgr.families, familyID)
			}
		}
	}
	mgr.mu.Unlock()

	if isDevice {
		mgr.backend.DeviceDisconnected(deviceID)
		wsLogger().Info("Device channel closed", zap.String("device_id", deviceID))
	}
}

func (mgr *Manager) IsConnected(deviceID string) bool {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	_, ok := mgr.devices[deviceID]
	return ok
}

// Send pushes envelope to deviceID's live channel. Returns false when
// there is no channel or the push did not hand off within SendTimeout.
func (mgr *Manager) Send(deviceID string, envelope any) bool {
	mgr.mu.RLock()
	link := mgr.devices[deviceID]
	mgr.mu.RUnlock()
	if link == nil {
		return false
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		wsLogger().Error("Envelope marshal failed", zap.String("device_id", deviceID), zap.Error(err))
		return false
	}
	if err := link.Push(data, mgr.config.SendTimeout); err != nil {
		wsLogger().Warn("Device push failed",
			zap.String("device_id", deviceID), zap.Error(err))
		return false
	}
	return true
}

// SendFamily pushes envelope to every live channel of familyID.
func (mgr *Manager) SendFamily(familyID string, envelope any) {
	mgr.mu.RLock()
	links := make([]Link, 0, len(mgr.families[familyID]))
	for link := range mgr.families[familyID] {
		links = append(links, link)
	}
	mgr.mu.RUnlock()

	if len(links) == 0 {
		return
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		wsLogger().Error("Envelope marshal failed", zap.String("family_id", familyID), zap.Error(err))
		return
	}
	for _, link := range links {
		if err := link.Push(data, mgr.config.SendTimeout); err != nil {
			wsLogger().Warn("Family push failed",
				zap.String("family_id", familyID), zap.Error(err))
		}
	}
}

func (mgr *Manager) ConnectedDeviceCount() int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return len(mgr.devices)
}

func (mgr *Manager) boundDevice(link Link) string {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.deviceIDs[link]
}

func (mgr *Manager) pushTo(link Link, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	_ = link.Push(data, mgr.config.SendTimeout)
}
