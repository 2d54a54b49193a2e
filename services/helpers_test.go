package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"
	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a migrated private in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func testFuzzyConfig() config.FuzzyConfig {
	return config.FuzzyConfig{
		Keywords:         []string{"찌개", "밥", "soup", "cake", "ice cream"},
		PrefixMinOverlap: 0.6,
	}
}

func seedRefs(t *testing.T, db *gorm.DB, refs ...models.FoodReference) *ReferenceStore {
	t.Helper()
	store := NewReferenceStore(db, testFuzzyConfig(), zap.NewNop())
	require.NoError(t, store.SeedReferences(context.Background(), refs))
	return store
}

func appleRef() models.FoodReference {
	return models.NewFoodReference(1, "apple", "사과", "apple",
		models.NutrientProfile{Calories: 52, Carbs: 14, Protein: 0.3, Fat: 0.2, VitaminC: 4.6})
}

func createMember(t *testing.T, db *gorm.DB, uid string, week *int) {
	t.Helper()
	m := models.Member{FirebaseUID: uid, Nickname: uid, IsPregnantMode: week != nil, PregnancyWeek: week}
	require.NoError(t, db.Create(&m).Error)
}

// stubOracle answers from fixed tables and counts calls per food.
type stubOracle struct {
	mu          sync.Mutex
	serving     map[string]float64 // missing entries get 100g
	full        map[string]FullEstimate
	fail        map[string]error // applies to both estimate kinds
	servingHits map[string]int
	fullHits    map[string]int
}

func newStubOracle() *stubOracle {
	return &stubOracle{
		serving:     map[string]float64{},
		full:        map[string]FullEstimate{},
		fail:        map[string]error{},
		servingHits: map[string]int{},
		fullHits:    map[string]int{},
	}
}

func (s *stubOracle) EstimateServingGrams(_ context.Context, name string) (ServingEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servingHits[name]++
	if err := s.fail[name]; err != nil {
		return ServingEstimate{}, err
	}
	if g, ok := s.serving[name]; ok {
		return ServingEstimate{Grams: g}, nil
	}
	return ServingEstimate{Grams: 100}, nil
}

func (s *stubOracle) EstimateFull(_ context.Context, name string) (FullEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullHits[name]++
	if err := s.fail[name]; err != nil {
		return FullEstimate{}, err
	}
	if est, ok := s.full[name]; ok {
		return est, nil
	}
	return FullEstimate{}, ErrOracleUnavailable
}

func (s *stubOracle) hits(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servingHits[name] + s.fullHits[name]
}

// fixedIDs makes request ids deterministic.
func fixedIDs(r *Resolver) {
	r.newID = func() string { return "req" }
}
