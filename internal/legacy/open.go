package legacy

import (
	"fmt"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

// New builds the slot selected by cfg.Legacy. Slots that hold connections
// implement io.Closer.
func New(cfg types.Config) (Cache, error) {
	switch cfg.Legacy.Backend {
	case types.LegacyFile, "":
		dir := cfg.DataDir
		if dir == "" {
			dir = "."
		}
		return NewFileSlot(dir, cfg.Legacy.Key), nil
	case types.LegacyRedis:
		return NewRedisSlot(NewRedisClient(cfg.Legacy.RedisAddr, cfg.Legacy.RedisDB), cfg.Legacy.Key), nil
	case types.LegacyMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrLegacyBackendUnknown, cfg.Legacy.Backend)
	}
}
