package store

import (
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

func encodeSnapshot(s domain.Snapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(b), nil
}

func decodeSnapshot(raw []byte) (*domain.Snapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s domain.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

func encodeKinds(kinds []domain.EventKind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ",")
}

func decodeKinds(s string) []domain.EventKind {
	if s == "" {
		return nil
	}
	var kinds []domain.EventKind
	for _, name := range strings.Split(s, ",") {
		if k, ok := domain.ParseEventKind(name); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
