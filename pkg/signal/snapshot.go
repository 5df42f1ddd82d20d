package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// SnapshotSource reads a page-signal dump produced by an external
// headless-browser runner, for offline audits and replays.
type SnapshotSource struct {
	Path string
}

// Acquire loads the snapshot file. The load happens at acquisition so a
// missing or corrupt file fails the audit up front, not mid-run.
func (s *SnapshotSource) Acquire(ctx context.Context) (Session, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signal snapshot: %w", err)
	}

	var sig PageSignals
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, fmt.Errorf("failed to parse signal snapshot %s: %w", s.Path, err)
	}
	return staticSession{signals: sig}, nil
}

// WriteSnapshot saves collected signals for later replay.
func WriteSnapshot(path string, sig *PageSignals) error {
	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode signal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write signal snapshot: %w", err)
	}
	return nil
}
