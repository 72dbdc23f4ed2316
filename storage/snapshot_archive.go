package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-brackets/brackets"
)

// SnapshotArchive keeps an immutable copy of every bracket version in an
// object store, one object per version.
type SnapshotArchive struct {
	store ObjectStore
}

func NewSnapshotArchive(store ObjectStore) *SnapshotArchive {
	return &SnapshotArchive{store: store}
}

func SnapshotKey(tournamentID, version int) string {
	return fmt.Sprintf("brackets/%d/v%06d.json", tournamentID, version)
}

func (a *SnapshotArchive) SaveSnapshot(ctx context.Context, tournamentID, version int, b *brackets.Bracket) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode bracket snapshot: %w", err)
	}
	if _, err := a.store.Upload(ctx, SnapshotKey(tournamentID, version), "application/json", bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

func (a *SnapshotArchive) LoadSnapshot(ctx context.Context, tournamentID, version int) (*brackets.Bracket, error) {
	data, err := a.store.Download(ctx, SnapshotKey(tournamentID, version))
	if err != nil {
		return nil, err
	}
	var b brackets.Bracket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("malformed bracket snapshot %s: %w", SnapshotKey(tournamentID, version), err)
	}
	return &b, nil
}
