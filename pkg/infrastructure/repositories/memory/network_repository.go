package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/netplan/pkg/domain/entities"
	"github.com/vsinha/netplan/pkg/domain/repositories"
)

// NetworkRepository provides in-memory storage of the input tables
type NetworkRepository struct {
	mu   sync.RWMutex
	data *entities.NetworkData
}

// NewNetworkRepository creates an empty in-memory network repository
func NewNetworkRepository() *NetworkRepository {
	return &NetworkRepository{}
}

// Verify interface compliance
var _ repositories.NetworkRepository = (*NetworkRepository)(nil)

// Load stores a copy of data
func (r *NetworkRepository) Load(data *entities.NetworkData) error {
	if data == nil {
		return fmt.Errorf("network data cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data.Clone()
	return nil
}

// Snapshot returns a deep copy of the stored tables
func (r *NetworkRepository) Snapshot() (*entities.NetworkData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.data == nil {
		return nil, repositories.ErrNoData
	}
	return r.data.Clone(), nil
}
