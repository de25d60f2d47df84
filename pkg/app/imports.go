package app

import (
	"context"
	"time"

	"tableflip.dev/grid/pkg/aspect"
	"tableflip.dev/grid/pkg/broadcast"
	"tableflip.dev/grid/pkg/merge"
	"tableflip.dev/grid/pkg/undo"
)

// Import applies a decoded payload with the given strategy. A replace keeps
// the overwritten collection restorable through Undo.
func (s *Service) Import(ctx context.Context, p merge.Payload, strategy merge.Strategy) (merge.Report, error) {
	if err := s.check(); err != nil {
		return merge.Report{}, err
	}
	var report merge.Report
	switch strategy {
	case merge.StrategyReplace:
		var previous []aspect.Aspect
		prevName := s.Persistence.UserName()
		next, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
			previous = list
			return merge.Replace(p), nil
		})
		if err != nil {
			return merge.Report{}, err
		}
		if name := aspect.FormatUserName(p.UserName); name != "" {
			if err := s.Persistence.SetUserName(name); err != nil {
				return merge.Report{}, err
			}
		}
		s.undoBuffer().Push(undo.Pending{Kind: undo.KindSnapshot, Snapshot: previous, UserName: prevName})
		report = merge.Report{Processed: len(next), Added: len(next)}
		for i := range next {
			report.EntriesAdded += next[i].TotalEntries()
		}
	default:
		_, err := s.mutate(ctx, func(list []aspect.Aspect) ([]aspect.Aspect, error) {
			var out []aspect.Aspect
			out, report = merge.Merge(list, p.Aspects, s.ids())
			return out, nil
		})
		if err != nil {
			return merge.Report{}, err
		}
	}
	s.notify(ctx, broadcast.AspectUpdated, broadcast.Data{})
	return report, nil
}

// Export snapshots the collection in the import format.
func (s *Service) Export(ctx context.Context) (merge.Payload, error) {
	list, err := s.Aspects(ctx)
	if err != nil {
		return merge.Payload{}, err
	}
	return merge.Payload{
		UserName:   s.Persistence.UserName(),
		Aspects:    list,
		ExportDate: s.now().UTC().Format(time.RFC3339),
		App:        merge.AppName,
	}, nil
}
