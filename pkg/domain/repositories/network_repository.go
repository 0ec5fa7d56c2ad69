package repositories

import (
	"errors"

	"github.com/vsinha/netplan/pkg/domain/entities"
)

// ErrNoData is returned by Snapshot before any data has been loaded
var ErrNoData = errors.New("no network data loaded")

// NetworkRepository provides access to the input tables of a planning run
type NetworkRepository interface {
	// Load replaces the stored tables with a copy of data
	Load(data *entities.NetworkData) error
	// Snapshot returns a deep copy that callers may modify freely
	Snapshot() (*entities.NetworkData, error)
}
