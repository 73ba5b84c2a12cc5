package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sys/cpu"
)

const (
	LRUStatsName = "xcoll/lru"
)

const cacheLinePadSize = unsafe.Sizeof(cpu.CacheLinePad{})

// lruStats records the otel instruments of one cache.
// All methods are nil receiver safe, a nil stats records nothing.
// The hit ratio gauge is observed by the collector goroutine, the two
// counters it loads sit on their own cache lines.
type lruStats struct {
	_           [cacheLinePadSize]byte
	hitCounter  atomic.Int64
	_           [cacheLinePadSize - unsafe.Sizeof(atomic.Int64{})]byte
	missCounter atomic.Int64
	_           [cacheLinePadSize - unsafe.Sizeof(atomic.Int64{})]byte
	attrs       metric.MeasurementOption
	hits        metric.Int64Counter
	misses      metric.Int64Counter
	evictions   metric.Int64Counter
	size        metric.Int64UpDownCounter
	hitRatio    metric.Float64ObservableGauge
}

func (stats *lruStats) IncreaseHitCount() {
	if stats == nil {
		return
	}
	stats.hits.Add(context.Background(), 1, stats.attrs)
	stats.hitCounter.Add(1)
}

func (stats *lruStats) IncreaseMissCount() {
	if stats == nil {
		return
	}
	stats.misses.Add(context.Background(), 1, stats.attrs)
	stats.missCounter.Add(1)
}

func (stats *lruStats) IncreaseEvictionCount() {
	if stats == nil {
		return
	}
	stats.evictions.Add(context.Background(), 1, stats.attrs)
}

func (stats *lruStats) RecordSize(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.size.Add(context.Background(), delta, stats.attrs)
}

func newLRUStats(name string, mp metric.MeterProvider) *lruStats {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(fmt.Sprintf("%s/%s", LRUStatsName, name))
	stats := &lruStats{
		attrs: metric.WithAttributeSet(attribute.NewSet(
			attribute.String("lru.name", name),
		)),
		hits: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"lru.hit.count",
				metric.WithDescription("The number of lookups which found the key."),
			),
		),
		misses: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"lru.miss.count",
				metric.WithDescription("The number of lookups which missed the key."),
			),
		),
		evictions: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"lru.eviction.count",
				metric.WithDescription("The number of entries evicted by the capacity."),
			),
		),
		size: lo.Must[metric.Int64UpDownCounter](meter.
			Int64UpDownCounter(
				"lru.size",
				metric.WithDescription("The number of entries in the cache."),
			),
		),
	}
	stats.hitRatio = lo.Must[metric.Float64ObservableGauge](meter.
		Float64ObservableGauge(
			"lru.hit.ratio",
			metric.WithDescription("The ratio of lookups which found the key."),
			metric.WithFloat64Callback(func(ctx context.Context, ob metric.Float64Observer) error {
				ratio := 0.00
				hits, misses := stats.hitCounter.Load(), stats.missCounter.Load()
				if total := hits + misses; total > 0 {
					ratio = float64(hits) / float64(total)
				}
				ob.Observe(ratio, metric.WithAttributes(attribute.String("lru.name", name)))
				return nil
			}),
			metric.WithUnit("%"),
		),
	)
	return stats
}
