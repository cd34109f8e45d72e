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

// Package ddconfig turns a YAMLConfig into a ready to use logger, row store and dictionary.
package ddconfig

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dictionary/libraries/ddcore/catalog"
	"github.com/dolthub/dictionary/store/rowstore"
)

// NewLogger returns a logger with the configured level and format.
func NewLogger(cfg *YAMLConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	if cfg.LogFormat == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

func (cfg *YAMLConfig) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryInterval()
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, cfg.Store.OpenRetries), ctx)
}

// OpenStore opens the configured row store, retrying failed attempts. A bolt file locked by another process and a
// MySQL server that is not up yet are both retried. When reg is not nil the store is instrumented.
func OpenStore(ctx context.Context, cfg *YAMLConfig, lgr *logrus.Entry, reg prometheus.Registerer) (rowstore.Store, error) {
	var open func() (rowstore.Store, error)
	switch cfg.Store.Backend {
	case BackendMemory:
		open = func() (rowstore.Store, error) {
			return rowstore.NewMemStore(), nil
		}
	case BackendBolt:
		open = func() (rowstore.Store, error) {
			return rowstore.OpenBoltStore(cfg.Store.Path, cfg.OpenTimeout())
		}
	case BackendMySQL:
		open = func() (rowstore.Store, error) {
			s, err := rowstore.OpenSQLStore(cfg.Store.DSN)
			if err != nil {
				return nil, backoff.Permanent(err)
			}

			pingCtx, cancel := context.WithTimeout(ctx, cfg.OpenTimeout())
			defer cancel()
			if err = s.Ping(pingCtx); err != nil {
				s.Close()
				return nil, err
			}
			return s, nil
		}
	default:
		return nil, rowstore.ErrUnknownBackend.New(cfg.Store.Backend)
	}

	lgr = lgr.WithField("backend", cfg.Store.Backend)
	var s rowstore.Store
	err := backoff.RetryNotify(func() (err error) {
		s, err = open()
		return err
	}, cfg.retryPolicy(ctx), func(err error, next time.Duration) {
		lgr.WithError(err).Warnf("failed to open dictionary store, retrying in %s", next)
	})
	if err != nil {
		return nil, err
	}

	if reg != nil {
		m, err := rowstore.NewStoreMetrics(reg, cfg.Metrics.Namespace)
		if err != nil {
			s.Close()
			return nil, err
		}
		s = rowstore.Instrument(s, m)
	}

	lgr.Debug("opened dictionary store")
	return s, nil
}

// OpenDictionary opens the configured store and the dictionary on top of it. Metrics are registered with reg when
// enabled in cfg.
func OpenDictionary(ctx context.Context, cfg *YAMLConfig, lgr *logrus.Entry, reg prometheus.Registerer) (*catalog.Dictionary, error) {
	if !cfg.Metrics.Enabled {
		reg = nil
	}

	s, err := OpenStore(ctx, cfg, lgr, reg)
	if err != nil {
		return nil, err
	}

	dd, err := catalog.Open(ctx, catalog.Args{
		Store:      s,
		Logger:     lgr,
		CacheSize:  cfg.Cache.Size,
		Registerer: reg,
		Namespace:  cfg.Metrics.Namespace,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return dd, nil
}
