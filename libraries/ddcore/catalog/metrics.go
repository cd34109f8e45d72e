// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil when no registerer was given; every method is a no-op on a nil receiver.
type metrics struct {
	ops       *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, namespace string) (*metrics, error) {
	m := &metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_ops_total",
			Help:      "Count of dictionary table operations by operation and result",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dictionary_op_duration_seconds",
			Help:      "Histogram of dictionary table operation latencies",
			Buckets:   []float64{0.001, 0.01, 0.1, 1.0, 10.0},
		}, []string{"op"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_cache_hits_total",
			Help:      "Count of tables served from the dictionary cache",
		}),
	}

	for _, c := range []prometheus.Collector{m.ops, m.duration, m.cacheHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(op string, start time.Time, err *error) {
	if m == nil {
		return
	}

	result := "ok"
	if *err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
