package game

import (
	"math/rand"

	"github.com/google/uuid"

	"munch-arena/internal/config"
)

// Spawner generates food batches for one session.
// Each session owns its spawner, so the RNG is only touched under the
// session lock and never needs its own synchronization.
type Spawner struct {
	cfg config.GameConfig
	rng *rand.Rand
}

// NewSpawner creates a spawner with a dedicated RNG.
// Pass a fixed seed in tests for reproducible batches.
func NewSpawner(cfg config.GameConfig, seed int64) *Spawner {
	return &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Batch returns a fresh batch of FoodBatch food entities with random
// positions inside the world bounds and scores drawn uniformly from
// [FoodScoreMin, FoodScoreMax].
func (s *Spawner) Batch() []*Food {
	batch := make([]*Food, 0, s.cfg.FoodBatch)
	span := s.cfg.FoodScoreMax - s.cfg.FoodScoreMin + 1
	for i := 0; i < s.cfg.FoodBatch; i++ {
		batch = append(batch, &Food{
			ID:    uuid.NewString(),
			X:     s.rng.Float64() * s.cfg.WorldWidth,
			Y:     s.rng.Float64() * s.cfg.WorldHeight,
			Score: s.cfg.FoodScoreMin + s.rng.Intn(span),
		})
	}
	return batch
}
