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

package rowstore

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	tableLabel  = "table"
	opLabel     = "op"
	resultLabel = "result"
)

// StoreMetrics holds the collectors reported by an instrumented store.
type StoreMetrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	txs      *prometheus.CounterVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
func NewStoreMetrics(reg prometheus.Registerer, namespace string) (*StoreMetrics, error) {
	m := &StoreMetrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rowstore_ops_total",
			Help:      "Count of dictionary row operations by table, operation and result",
		}, []string{tableLabel, opLabel, resultLabel}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rowstore_op_duration_seconds",
			Help:      "Histogram of dictionary row operation latencies",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		}, []string{opLabel}),
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rowstore_transactions_total",
			Help:      "Count of dictionary transactions by outcome",
		}, []string{resultLabel}),
	}

	for _, c := range []prometheus.Collector{m.ops, m.duration, m.txs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *StoreMetrics) observe(table, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(table, op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Instrument wraps a store so that every table operation and transaction outcome is counted.
func Instrument(s Store, m *StoreMetrics) Store {
	return &instrumentedStore{Store: s, m: m}
}

type instrumentedStore struct {
	Store
	m *StoreMetrics
}

func (s *instrumentedStore) Begin(ctx context.Context, writable bool) (Tx, error) {
	tx, err := s.Store.Begin(ctx, writable)
	if err != nil {
		s.m.txs.WithLabelValues("begin_error").Inc()
		return nil, err
	}
	return &instrumentedTx{Tx: tx, m: s.m}, nil
}

type instrumentedTx struct {
	Tx
	m *StoreMetrics
}

func (tx *instrumentedTx) Table(def *TableDef) (Table, error) {
	t, err := tx.Tx.Table(def)
	if err != nil {
		return nil, err
	}
	return &instrumentedTable{Table: t, m: tx.m}, nil
}

func (tx *instrumentedTx) Commit() error {
	err := tx.Tx.Commit()
	if err != nil {
		tx.m.txs.WithLabelValues("commit_error").Inc()
	} else {
		tx.m.txs.WithLabelValues("commit").Inc()
	}
	return err
}

func (tx *instrumentedTx) Rollback() error {
	tx.m.txs.WithLabelValues("rollback").Inc()
	return tx.Tx.Rollback()
}

type instrumentedTable struct {
	Table
	m *StoreMetrics
}

func (t *instrumentedTable) Insert(ctx context.Context, rec *Record) (uint64, error) {
	start := time.Now()
	id, err := t.Table.Insert(ctx, rec)
	t.m.observe(t.Def().Name, "insert", start, err)
	return id, err
}

func (t *instrumentedTable) Update(ctx context.Context, id uint64, rec *Record) error {
	start := time.Now()
	err := t.Table.Update(ctx, id, rec)
	t.m.observe(t.Def().Name, "update", start, err)
	return err
}

func (t *instrumentedTable) Get(ctx context.Context, id uint64) (*Record, error) {
	start := time.Now()
	rec, err := t.Table.Get(ctx, id)
	t.m.observe(t.Def().Name, "get", start, err)
	return rec, err
}

func (t *instrumentedTable) Find(ctx context.Context, key Key) ([]*Record, error) {
	start := time.Now()
	recs, err := t.Table.Find(ctx, key)
	t.m.observe(t.Def().Name, "find", start, err)
	return recs, err
}

func (t *instrumentedTable) Delete(ctx context.Context, id uint64) error {
	start := time.Now()
	err := t.Table.Delete(ctx, id)
	t.m.observe(t.Def().Name, "delete", start, err)
	return err
}

func (t *instrumentedTable) DeleteMatching(ctx context.Context, key Key) (int, error) {
	start := time.Now()
	n, err := t.Table.DeleteMatching(ctx, key)
	t.m.observe(t.Def().Name, "delete_matching", start, err)
	return n, err
}
