package model

// Version constants for the persisted snapshot and the engine.
const (
	// SnapshotVersion is the snapshot layout version used in digests.
	SnapshotVersion = "1"

	// EngineVersion is the tally engine version.
	EngineVersion = "0.1.0"
)
