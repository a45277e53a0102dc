// Package ridepulse aggregates and filters ride-booking feeds.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/ridepulse/engine"
//	    "github.com/spektr-org/ridepulse/helpers"
//	)
//
//	ds, report, err := helpers.Load(ctx, file, helpers.LoadOptions{})
//	view := engine.FilterRange(ds, engine.Range{Start: "2024-03-01", End: "2024-03-31"})
//	snap, err := engine.BuildSnapshot(ctx, view, engine.WithTopN(5))
//
// The schema package normalizes raw CSV rows, the engine package computes
// KPIs, rankings, distributions and heatmaps over zero-copy views, and the
// dashboard package keeps independently filtered sections over one dataset.
// All computation is local; only the helpers and export packages touch S3.
package ridepulse
