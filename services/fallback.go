package services

import (
	"context"
	"errors"
	"fmt"
)

// Provider is one entry of an ordered fallback list.
type Provider[T any] struct {
	Name string
	Call func(ctx context.Context) (T, error)
}

// FirstSuccess tries providers in order and returns the first successful
// result. Errors from every failed provider are joined into the final error.
// A cancelled context stops the walk.
func FirstSuccess[T any](ctx context.Context, providers []Provider[T]) (T, string, error) {
	var zero T
	if len(providers) == 0 {
		return zero, "", errors.New("no providers configured")
	}
	var errs []error
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		v, err := p.Call(ctx)
		if err == nil {
			return v, p.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}
	return zero, "", errors.Join(errs...)
}
