package content

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

// SourceStatus reports how one source fared in an aggregation.
type SourceStatus struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Result struct {
	Items   []models.ContentItem `json:"items"`
	Sources []SourceStatus       `json:"sources"`
}

// Aggregator fans out to every source and merges results in source order.
// A failing source contributes nothing and never fails the whole collection.
type Aggregator struct {
	sources []Source
	log     *zap.Logger
}

func NewAggregator(log *zap.Logger, sources ...Source) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{sources: sources, log: log.Named("aggregator")}
}

func (a *Aggregator) Collect(ctx context.Context, req Request) Result {
	perSource := make([][]models.ContentItem, len(a.sources))
	statuses := make([]SourceStatus, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			statuses[i].Name = src.Name()
			items, err := src.Fetch(gctx, req)
			switch {
			case errors.Is(err, ErrSourceSkipped):
				statuses[i].Skipped = true
			case err != nil:
				statuses[i].Error = err.Error()
				a.log.Warn("source failed", zap.String("source", src.Name()), zap.Error(err))
			default:
				perSource[i] = items
				statuses[i].Count = len(items)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Items: []models.ContentItem{}, Sources: statuses}
	seen := map[string]bool{}
	for _, items := range perSource {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			res.Items = append(res.Items, item)
		}
	}
	return res
}

// Warm drops cached listings and collects once so the cache is repopulated.
func (a *Aggregator) Warm(ctx context.Context) Result {
	for _, src := range a.sources {
		if r, ok := src.(refresher); ok {
			if err := r.Refresh(ctx); err != nil {
				a.log.Warn("cache refresh failed", zap.String("source", src.Name()), zap.Error(err))
			}
		}
	}
	return a.Collect(ctx, Request{})
}
