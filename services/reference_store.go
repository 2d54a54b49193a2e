package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"
	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceLookup finds per-100g reference profiles by food name.
// Both methods return (nil, nil) when nothing qualifies.
type ReferenceLookup interface {
	LookupExact(ctx context.Context, name string) (*models.FoodReference, error)
	LookupFuzzy(ctx context.Context, name string) (*models.FoodReference, error)
}

const (
	prefixRunes         = 3
	maxPrefixCandidates = 50
)

// ReferenceStore reads the nutrient master table.
type ReferenceStore struct {
	db               *gorm.DB
	keywords         []string
	prefixMinOverlap float64
	log              *zap.Logger
}

func NewReferenceStore(db *gorm.DB, fuzzy config.FuzzyConfig, log *zap.Logger) *ReferenceStore {
	kws := make([]string, 0, len(fuzzy.Keywords))
	seen := make(map[string]bool, len(fuzzy.Keywords))
	for _, kw := range fuzzy.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		kws = append(kws, kw)
	}
	return &ReferenceStore{
		db:               db,
		keywords:         kws,
		prefixMinOverlap: fuzzy.PrefixMinOverlap,
		log:              log.Named("reference"),
	}
}

// LookupExact matches name case-insensitively against every name column.
// Ties go to the lowest food_id.
func (s *ReferenceStore) LookupExact(ctx context.Context, name string) (*models.FoodReference, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, nil
	}
	var rows []models.FoodReference
	err := s.db.WithContext(ctx).
		Where("LOWER(food_name) = ? OR LOWER(food_name_ko) = ? OR LOWER(food_name_en) = ?", key, key, key).
		Order("food_id").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("exact lookup %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// LookupFuzzy tries category keywords found in name (longest first), then
// rows sharing the first three characters of name.
func (s *ReferenceStore) LookupFuzzy(ctx context.Context, name string) (*models.FoodReference, error) {
	key := normalizeName(name)
	if key == "" {
		return nil, nil
	}

	for _, kw := range s.MatchKeywords(key) {
		var rows []models.FoodReference
		err := s.containsQuery(ctx, kw).
			Order("food_name IS NULL, food_name, food_id").
			Limit(1).
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("keyword lookup %q: %w", kw, err)
		}
		if len(rows) > 0 {
			s.log.Debug("fuzzy keyword match",
				zap.String("food", name), zap.String("keyword", kw),
				zap.Int("food_id", rows[0].FoodID), zap.String("reference", rows[0].DisplayName()))
			return &rows[0], nil
		}
	}

	runes := []rune(key)
	if len(runes) < prefixRunes {
		return nil, nil
	}
	prefix := string(runes[:prefixRunes])
	var rows []models.FoodReference
	err := s.containsQuery(ctx, prefix).
		Order("food_id").
		Limit(maxPrefixCandidates).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("prefix lookup %q: %w", prefix, err)
	}
	for i := range rows {
		if charOverlap(key, rows[i]) >= s.prefixMinOverlap {
			s.log.Debug("fuzzy prefix match",
				zap.String("food", name), zap.String("prefix", prefix),
				zap.Int("food_id", rows[i].FoodID), zap.String("reference", rows[i].DisplayName()))
			return &rows[i], nil
		}
	}
	return nil, nil
}

// MatchKeywords returns the configured keywords contained in name, longest
// first; equal lengths keep configuration order.
func (s *ReferenceStore) MatchKeywords(name string) []string {
	key := normalizeName(name)
	var found []string
	for _, kw := range s.keywords {
		if strings.Contains(key, kw) {
			found = append(found, kw)
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return utf8.RuneCountInString(found[i]) > utf8.RuneCountInString(found[j])
	})
	return found
}

// SeedReferences inserts rows, replacing any existing row with the same id.
func (s *ReferenceStore) SeedReferences(ctx context.Context, refs []models.FoodReference) error {
	if len(refs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "food_id"}}, UpdateAll: true}).
		Create(&refs).Error
	if err != nil {
		return fmt.Errorf("seed references: %w", err)
	}
	return nil
}

func (s *ReferenceStore) containsQuery(ctx context.Context, fragment string) *gorm.DB {
	pattern := "%" + escapeLike(fragment) + "%"
	return s.db.WithContext(ctx).Where(
		`LOWER(food_name) LIKE ? ESCAPE '\' OR LOWER(food_name_ko) LIKE ? ESCAPE '\' OR LOWER(food_name_en) LIKE ? ESCAPE '\'`,
		pattern, pattern, pattern,
	)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// charOverlap is the share of key's distinct non-space characters that also
// appear in the best-matching name column of ref.
func charOverlap(key string, ref models.FoodReference) float64 {
	want := make(map[rune]bool)
	for _, r := range key {
		if !unicode.IsSpace(r) {
			want[r] = true
		}
	}
	if len(want) == 0 {
		return 0
	}
	best := 0.0
	for _, n := range []*string{ref.FoodName, ref.FoodNameKo, ref.FoodNameEn} {
		if n == nil {
			continue
		}
		cand := strings.ToLower(*n)
		hit := 0
		for r := range want {
			if strings.ContainsRune(cand, r) {
				hit++
			}
		}
		if o := float64(hit) / float64(len(want)); o > best {
			best = o
		}
	}
	return best
}
