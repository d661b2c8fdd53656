package events

// EventData is the interface that all event payload types implement.
// This allows for type-safe event data while maintaining flexibility.
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// SnapshotRecordedData contains data for SnapshotRecorded events.
type SnapshotRecordedData struct {
	Wallet string  `json:"wallet"`
	Ratio  float64 `json:"ratio"`
	Status string  `json:"status"`
}

// EventType returns the event type for SnapshotRecordedData.
func (d *SnapshotRecordedData) EventType() EventType {
	return SnapshotRecorded
}

// BadgesUnlockedData contains data for BadgesUnlocked events.
type BadgesUnlockedData struct {
	Wallet   string   `json:"wallet"`
	BadgeIDs []string `json:"badge_ids"`
}

// EventType returns the event type for BadgesUnlockedData.
func (d *BadgesUnlockedData) EventType() EventType {
	return BadgesUnlocked
}

// BackupCompletedData contains data for BackupCompleted events.
type BackupCompletedData struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
}

// EventType returns the event type for BackupCompletedData.
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
