package services

import (
	"context"
	"fmt"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultResolveConcurrency caps simultaneous item resolutions per batch.
const DefaultResolveConcurrency = 8

// Resolver turns food names into nutrient amounts: exact reference, then
// fuzzy reference, then a full oracle estimate.
type Resolver struct {
	refs        ReferenceLookup
	oracle      Estimator
	concurrency int
	newID       func() string
	log         *zap.Logger
}

func NewResolver(refs ReferenceLookup, oracle Estimator, concurrency int, log *zap.Logger) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultResolveConcurrency
	}
	return &Resolver{
		refs:        refs,
		oracle:      oracle,
		concurrency: concurrency,
		newID:       uuid.NewString,
		log:         log.Named("resolver"),
	}
}

// Resolve resolves every item concurrently. out[i] always belongs to
// items[i]; failures degrade that one item to TierUnknown.
func (r *Resolver) Resolve(ctx context.Context, items []models.FoodItem) []models.ResolvedNutrition {
	out := make([]models.ResolvedNutrition, len(items))
	if len(items) == 0 {
		return out
	}

	// Tasks never return an error, so the group never cancels siblings.
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, item := range items {
		g.Go(func() error {
			out[i] = r.resolveOne(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	unknown := 0
	for _, res := range out {
		if !res.Resolved() {
			unknown++
		}
	}
	r.log.Info("batch resolved", zap.Int("items", len(items)), zap.Int("unknown", unknown))
	return out
}

// ResolveNames is Resolve for plain names.
func (r *Resolver) ResolveNames(ctx context.Context, names []string) []models.ResolvedNutrition {
	items := make([]models.FoodItem, len(names))
	for i, n := range names {
		items[i] = models.FoodItem{Name: n}
	}
	return r.Resolve(ctx, items)
}

func (r *Resolver) resolveOne(ctx context.Context, item models.FoodItem) models.ResolvedNutrition {
	res, err := r.resolveTiers(ctx, item.Name)
	if err != nil {
		r.log.Warn("food unresolved", zap.String("food", item.Name), zap.Error(err))
		res = models.ResolvedNutrition{
			FoodName:     item.Name,
			ServingGrams: models.UnknownServingGrams,
			Tier:         models.TierUnknown,
		}
	}
	res.RequestID = r.newID()
	return res
}

func (r *Resolver) resolveTiers(ctx context.Context, name string) (models.ResolvedNutrition, error) {
	ref, err := r.refs.LookupExact(ctx, name)
	if err != nil {
		return models.ResolvedNutrition{}, err
	}
	if ref != nil {
		return r.scaleReference(ctx, name, ref, models.TierExact)
	}

	ref, err = r.refs.LookupFuzzy(ctx, name)
	if err != nil {
		return models.ResolvedNutrition{}, err
	}
	if ref != nil {
		return r.scaleReference(ctx, name, ref, models.TierFuzzy)
	}

	est, err := r.oracle.EstimateFull(ctx, name)
	if err != nil {
		return models.ResolvedNutrition{}, fmt.Errorf("full estimate: %w", err)
	}
	return models.ResolvedNutrition{
		FoodName:     name,
		ServingGrams: est.ServingGrams,
		Nutrients:    est.Nutrients,
		Tier:         models.TierFullEstimate,
	}, nil
}

func (r *Resolver) scaleReference(ctx context.Context, name string, ref *models.FoodReference, tier models.ResolutionTier) (models.ResolvedNutrition, error) {
	serving, err := r.oracle.EstimateServingGrams(ctx, name)
	if err != nil {
		return models.ResolvedNutrition{}, fmt.Errorf("serving estimate: %w", err)
	}
	id := ref.FoodID
	return models.ResolvedNutrition{
		FoodName:        name,
		ReferenceID:     &id,
		ServingGrams:    serving.Grams,
		ServingFallback: serving.Fallback,
		Nutrients:       ref.Profile().ForServing(serving.Grams),
		Tier:            tier,
	}, nil
}
