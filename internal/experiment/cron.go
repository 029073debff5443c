package experiment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

const feedDateLayout = "2006-01-02"

// cronFeed regenerates every model once per cron tick between from and to
// and writes each tick to its own {cron-date} path.
type cronFeed struct {
	name     string
	path     string
	schedule cron.Schedule
	from     time.Time // zero means now
	to       time.Time // zero means unbounded
	count    int
	writer   string
	params   model.Params
}

func newCronFeed(name string, spec *model.Experiment) (Experiment, error) {
	if spec.Path == "" {
		return nil, fmt.Errorf("path is missing")
	}
	schedule, err := cron.ParseStandard(spec.Cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec.Cron, err)
	}

	f := &cronFeed{
		name:     name,
		path:     spec.Path,
		schedule: schedule,
		count:    math.MaxInt,
		writer:   spec.Writer.Name,
		params:   spec.Writer.Params,
	}
	if spec.Dates.From != "" {
		if f.from, err = time.Parse(feedDateLayout, spec.Dates.From); err != nil {
			return nil, fmt.Errorf("invalid dates.from %q: expected YYYY-MM-DD", spec.Dates.From)
		}
	}
	if spec.Dates.To != "" {
		if f.to, err = time.Parse(feedDateLayout, spec.Dates.To); err != nil {
			return nil, fmt.Errorf("invalid dates.to %q: expected YYYY-MM-DD", spec.Dates.To)
		}
	}
	if spec.Dates.Count != nil {
		if *spec.Dates.Count < 0 {
			return nil, fmt.Errorf("dates.count cannot be negative")
		}
		f.count = *spec.Dates.Count
	}
	return f, nil
}

// Ticks returns the cron times the feed writes, starting after from.
func (f *cronFeed) Ticks(now time.Time) ([]time.Time, error) {
	from := f.from
	if from.IsZero() {
		from = now
	}
	if !f.to.IsZero() && !from.Before(f.to) {
		return nil, fmt.Errorf("dates.from (%s) must be before dates.to (%s)",
			from.Format(feedDateLayout), f.to.Format(feedDateLayout))
	}

	var ticks []time.Time
	cur := from
	for len(ticks) < f.count {
		next := f.schedule.Next(cur)
		if next.IsZero() || (!f.to.IsZero() && next.After(f.to)) {
			break
		}
		ticks = append(ticks, next)
		cur = next
	}
	return ticks, nil
}

func (f *cronFeed) Run(ctx context.Context, env *Env) error {
	ticks, err := f.Ticks(env.Options.Now)
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		color.Yellow("⚠️  Cron feed %s has no ticks in range", f.name)
		return nil
	}

	for i, tick := range ticks {
		color.Cyan("⏰ %s", tick.Format(time.RFC3339))
		res, err := env.Generate(ctx, int64(i))
		if err != nil {
			return fmt.Errorf("tick %s: %w", tick.Format(time.RFC3339), err)
		}
		vars := map[string]string{"cron-date": tick.Format(CronDateLayout)}
		if err := writeAll(ctx, f.writer, env.Datasets(res, f.path, f.params, vars)); err != nil {
			return fmt.Errorf("tick %s: %w", tick.Format(time.RFC3339), err)
		}
	}
	return nil
}
