package twofactor

import (
	"context"
	"slices"
	"sync"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps records in process memory. It suits tests and
// single-instance deployments; records are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

func (ms *MemoryStore) Load(ctx context.Context, ownerID string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

func (ms *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil || rec.OwnerID == "" {
		return ErrInvalidOwner
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.records[rec.OwnerID] = rec.clone()
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.records, ownerID)
	return nil
}

func (ms *MemoryStore) RemoveRecoveryCode(ctx context.Context, ownerID, codeHash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[ownerID]
	if !ok {
		return false, nil
	}
	i := slices.Index(rec.RecoveryCodes, codeHash)
	if i < 0 {
		return false, nil
	}
	rec.RecoveryCodes = slices.Delete(rec.RecoveryCodes, i, i+1)
	return true, nil
}

func (ms *MemoryStore) ReplaceRecoveryCodes(ctx context.Context, ownerID string, codeHashes []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	rec, ok := ms.records[ownerID]
	if !ok {
		return false, nil
	}
	rec.RecoveryCodes = slices.Clone(codeHashes)
	return true, nil
}

// Len returns the number of owners with two-factor enabled.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.records)
}
