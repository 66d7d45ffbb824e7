package models

import "time"

type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "online"
	DeviceStatusOffline     DeviceStatus = "offline"
	DeviceStatusEmergency   DeviceStatus = "emergency"
	DeviceStatusLowBattery  DeviceStatus = "low_battery"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusEmergency,
		DeviceStatusLowBattery, DeviceStatusMaintenance:
		return true
	}
	return false
}

type CommandType string

const (
	CommandEmergencyMode      CommandType = "emergency_mode"
	CommandMedicationReminder CommandType = "medication_reminder"
	CommandFamilyMessage      CommandType = "family_message"
	CommandUpdateSettings     CommandType = "update_settings"
	CommandRestartApp         CommandType = "restart_app"
	CommandLockDevice         CommandType = "lock_device"
	CommandLocateDevice       CommandType = "locate_device"
)

var CommandTypes = []string{
	string(CommandEmergencyMode),
	string(CommandMedicationReminder),
	string(CommandFamilyMessage),
	string(CommandUpdateSettings),
	string(CommandRestartApp),
	string(CommandLockDevice),
	string(CommandLocateDevice),
}

type CommandStatus string

const (
	CommandStatusPending      CommandStatus = "pending"
	CommandStatusSent         CommandStatus = "sent"
	CommandStatusAcknowledged CommandStatus = "acknowledged"
	CommandStatusCompleted    CommandStatus = "completed"
	CommandStatusFailed       CommandStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s CommandStatus) Terminal() bool {
	return s == CommandStatusCompleted || s == CommandStatusFailed
}

type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type QuietHours struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Accessibility struct {
	FontSize        string `json:"fontSize"` // normal | large | extra_large
	HighContrast    bool   `json:"highContrast"`
	VoiceAssistance bool   `json:"voiceAssistance"`
	HapticFeedback  bool   `json:"hapticFeedback"`
}

type Restrictions struct {
	AllowedApps     []string `json:"allowedApps"`
	BlockedWebsites []string `json:"blockedWebsites"`
	ScreenTimeLimit int      `json:"screenTimeLimit"` // minutes per day, 0 = unlimited
}

type EmergencyContact struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Phone               string   `json:"phone"`
	Email               string   `json:"email,omitempty"`
	Relationship        string   `json:"relationship"`
	IsPrimary           bool     `json:"isPrimary"`
	NotificationMethods []string `json:"notificationMethods"` // sms | email | push | call
}

type TabletSettings struct {
	KioskMode           bool               `json:"kioskMode"`
	EmergencyContacts   []EmergencyContact `json:"emergencyContacts"`
	MedicationReminders bool               `json:"medicationReminders"`
	QuietHours          QuietHours         `json:"quietHours"`
	Accessibility       Accessibility      `json:"accessibility"`
	Restrictions        Restrictions       `json:"restrictions"`
}

type DailyActivity struct {
	StepsCount         int `json:"stepsCount,omitempty"`
	ExerciseMinutes    int `json:"exerciseMinutes"`
	SocialInteractions int `json:"socialInteractions"`
}

type VitalSigns struct {
	BloodPressure *BloodPressure `json:"bloodPressure,omitempty"`
	HeartRate     float64        `json:"heartRate,omitempty"`
	BloodGlucose  float64        `json:"bloodGlucose,omitempty"`
	Weight        float64        `json:"weight,omitempty"`
}

type BloodPressure struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

type EmergencyAlertCounts struct {
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

type HealthMetrics struct {
	LastCheckIn          time.Time            `json:"lastCheckIn"`
	MedicationCompliance float64              `json:"medicationCompliance"` // percentage
	DailyActivity        DailyActivity        `json:"dailyActivity"`
	VitalSigns           VitalSigns           `json:"vitalSigns"`
	EmergencyAlerts      EmergencyAlertCounts `json:"emergencyAlerts"`
}

// Device is the live registry view of an enrolled tablet. It is held in
// memory; DeviceSnapshot is the persisted recovery copy.
type Device struct {
	DeviceID      string         `json:"deviceId"`
	SeniorID      string         `json:"seniorId"`
	SeniorName    string         `json:"seniorName"`
	Model         string         `json:"model"`
	OSVersion     string         `json:"osVersion"`
	AppVersion    string         `json:"appVersion"`
	Status        DeviceStatus   `json:"status"`
	LastHeartbeat time.Time      `json:"lastHeartbeat"`
	BatteryLevel  float64        `json:"batteryLevel"`
	Location      *Location      `json:"location,omitempty"`
	Settings      TabletSettings `json:"settings"`
	HealthMetrics HealthMetrics  `json:"healthMetrics"`
}

type RemoteCommand struct {
	ID         string         `json:"id"`
	DeviceID   string         `json:"deviceId"`
	Type       CommandType    `json:"type"`
	Payload    map[string]any `json:"payload"`
	Status     CommandStatus  `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExecutedAt *time.Time     `json:"executedAt,omitempty"`
}

type EmergencyAlert struct {
	ID         string         `json:"id"`
	DeviceID   string         `json:"deviceId"`
	SeniorID   string         `json:"seniorId"`
	SeniorName string         `json:"seniorName"`
	AlertType  string         `json:"alertType"`
	Message    string         `json:"message"`
	Location   *Location      `json:"location,omitempty"`
	Vitals     map[string]any `json:"vitals,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Status     string         `json:"status"`
}

// HeartbeatUpdate is the partial device update carried by one heartbeat.
type HeartbeatUpdate struct {
	BatteryLevel float64
	Location     *Location
	Status       DeviceStatus
}

// DeviceInfo is what a tablet reports about itself at enrollment.
type DeviceInfo struct {
	DeviceID   string `json:"deviceId"`
	Model      string `json:"model"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
}

// HealthUpdate is a partial merge into a device's health metrics.
type HealthUpdate struct {
	LastCheckIn          *time.Time     `json:"lastCheckIn,omitempty"`
	MedicationCompliance *float64       `json:"medicationCompliance,omitempty"`
	DailyActivity        *DailyActivity `json:"dailyActivity,omitempty"`
	VitalSigns           *VitalSigns    `json:"vitalSigns,omitempty"`
}

// SettingsPatch is a partial settings update from the family portal. Nil
// fields are left untouched; nested patches merge field by field.
type SettingsPatch struct {
	KioskMode           *bool               `json:"kioskMode,omitempty"`
	EmergencyContacts   *[]EmergencyContact `json:"emergencyContacts,omitempty"`
	MedicationReminders *bool               `json:"medicationReminders,omitempty"`
	QuietHours          *QuietHoursPatch    `json:"quietHours,omitempty"`
	Accessibility       *AccessibilityPatch `json:"accessibility,omitempty"`
	Restrictions        *RestrictionsPatch  `json:"restrictions,omitempty"`
}

type QuietHoursPatch struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

type AccessibilityPatch struct {
	FontSize        *string `json:"fontSize,omitempty"`
	HighContrast    *bool   `json:"highContrast,omitempty"`
	VoiceAssistance *bool   `json:"voiceAssistance,omitempty"`
	HapticFeedback  *bool   `json:"hapticFeedback,omitempty"`
}

type RestrictionsPatch struct {
	AllowedApps     *[]string `json:"allowedApps,omitempty"`
	BlockedWebsites *[]string `json:"blockedWebsites,omitempty"`
	ScreenTimeLimit *int      `json:"screenTimeLimit,omitempty"`
}

// FamilyEvent is an out-of-band notification pushed to a senior's linked
// families (over their live channels, when connected).
type FamilyEvent struct {
	Type      string         `json:"type"`
	DeviceID  string         `json:"deviceId"`
	SeniorID  string         `json:"seniorId"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

const (
	FamilyEventEmergencyAlert = "emergency_alert"
	FamilyEventDeviceOffline  = "device_offline"
	FamilyEventCommandResult  = "command_result"
	FamilyEventHealthAnomaly  = "health_anomaly"
)

// --- persistence models (gorm) ---

// EnrollmentCode is a single-use code binding a new tablet to a senior.
type EnrollmentCode struct {
	Code       string `gorm:"primaryKey"`
	SeniorID   string `gorm:"index"`
	SeniorName string
	Consumed   bool
	CreatedAt  time.Time
}

// DeviceSnapshot is the write-through copy of a Device, keyed by device id.
// The in-memory registry is the authoritative live view; snapshots exist so
// enrollment survives a restart.
type DeviceSnapshot struct {
	DeviceID      string `gorm:"primaryKey"`
	SeniorID      string `gorm:"index"`
	SeniorName    string
	Model         string
	OSVersion     string
	AppVersion    string
	Status        string
	LastHeartbeat time.Time
	BatteryLevel  float64
	Location      *Location      `gorm:"serializer:json"`
	Settings      TabletSettings `gorm:"serializer:json"`
	HealthMetrics HealthMetrics  `gorm:"serializer:json"`
	UpdatedAt     time.Time
}

// CommandRecord archives a command once it reaches a terminal state.
type CommandRecord struct {
	ID         string `gorm:"primaryKey"`
	DeviceID   string `gorm:"index"`
	Type       string
	Payload    map[string]any `gorm:"serializer:json"`
	Status     string
	CreatedAt  time.Time
	ExecutedAt *time.Time
	Result     map[string]any `gorm:"serializer:json"`
}

// AlertRecord persists emergency alerts raised by devices or family members.
type AlertRecord struct {
	ID        string `gorm:"primaryKey"`
	DeviceID  string `gorm:"index"`
	SeniorID  string `gorm:"index"`
	AlertType string
	Message   string
	Location  *Location      `gorm:"serializer:json"`
	Vitals    map[string]any `gorm:"serializer:json"`
	Timestamp time.Time
	Status    string
}

// FamilyLink records that a family account is allowed to manage a senior's
// devices. Ownership checks resolve through this table.
type FamilyLink struct {
	ID       uint   `gorm:"primaryKey"`
	SeniorID string `gorm:"index"`
	FamilyID string `gorm:"index"`
}
