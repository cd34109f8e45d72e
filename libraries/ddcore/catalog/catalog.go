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

// Package catalog is the entry point to a stored data dictionary. A Dictionary owns the row store, hands out
// shared read only tables through a cache, and runs every store and drop of a table graph in its own transaction.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/dictionary/libraries/ddcore/ddcache"
	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/sdi"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

const (
	// DDVersionKey and InstanceIDKey are the keys of the dd_properties row.
	DDVersionKey  = "DD_VERSION"
	InstanceIDKey = "UUID"

	// ddPropertiesID is the row id of the single dd_properties row.
	ddPropertiesID = 1

	defaultLoadConcurrency = 8
)

var (
	ErrVersionMismatch = errors.NewKind("dictionary has version %d, expected %d")
	ErrBadDDProperties = errors.NewKind("dictionary properties are corrupt")
)

// Args configures a Dictionary. Only Store is required.
type Args struct {
	Store  rowstore.Store
	Logger *logrus.Entry
	// CacheSize is the number of tables kept by AcquireTable. Defaults to ddcache.DefaultSize.
	CacheSize int
	// LoadConcurrency bounds the number of tables LoadTables restores at once.
	LoadConcurrency int
	// Registerer, when set, receives the dictionary operation counters.
	Registerer prometheus.Registerer
	Namespace  string
}

// Dictionary is a data dictionary backed by a row store.
type Dictionary struct {
	d          *systables.Descriptors
	store      rowstore.Store
	cache      *ddcache.TableCache
	log        *logrus.Entry
	metrics    *metrics
	instanceID uuid.UUID
	loadLimit  int
}

// Open creates the dictionary tables if needed and checks, or on first use writes, the dd_properties row.
func Open(ctx context.Context, args Args) (*Dictionary, error) {
	if args.Logger == nil {
		args.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if args.CacheSize <= 0 {
		args.CacheSize = ddcache.DefaultSize
	}
	if args.LoadConcurrency <= 0 {
		args.LoadConcurrency = defaultLoadConcurrency
	}

	cache, err := ddcache.New(args.CacheSize)
	if err != nil {
		return nil, err
	}

	dd := &Dictionary{
		d:         systables.NewDescriptors(),
		store:     args.Store,
		cache:     cache,
		log:       args.Logger,
		loadLimit: args.LoadConcurrency,
	}

	if args.Registerer != nil {
		dd.metrics, err = newMetrics(args.Registerer, args.Namespace)
		if err != nil {
			return nil, err
		}
	}

	if err = dd.store.Init(ctx, dd.d.All()...); err != nil {
		return nil, err
	}
	if err = dd.bootstrap(ctx); err != nil {
		return nil, err
	}

	dd.log.WithField("instance_id", dd.instanceID.String()).Debug("opened data dictionary")
	return dd, nil
}

func (dd *Dictionary) bootstrap(ctx context.Context) error {
	return rowstore.Update(ctx, dd.store, func(tx rowstore.Tx) error {
		tbl, err := tx.Table(dd.d.DDProperties)
		if err != nil {
			return err
		}

		rec, err := tbl.Get(ctx, ddPropertiesID)
		if rowstore.ErrRowNotFound.Is(err) {
			dd.instanceID = uuid.New()

			props := properties.NewWithKeys(DDVersionKey, InstanceIDKey)
			props.SetUint64(DDVersionKey, systables.DDVersion)
			props.Set(InstanceIDKey, dd.instanceID.String())

			rec = dd.d.DDProperties.NewRecord()
			rec.SetString(systables.DDPropertiesProperties, props.RawString())
			_, err = tbl.Insert(ctx, rec)
			return err
		} else if err != nil {
			return err
		}

		props, err := properties.ParseWithKeys(rec.String(systables.DDPropertiesProperties), DDVersionKey, InstanceIDKey)
		if err != nil {
			return ErrBadDDProperties.Wrap(err)
		}

		version, err := props.GetUint64(DDVersionKey)
		if err != nil {
			return ErrBadDDProperties.Wrap(err)
		}
		if version != systables.DDVersion {
			return ErrVersionMismatch.New(version, systables.DDVersion)
		}

		raw, ok := props.Get(InstanceIDKey)
		if !ok {
			return ErrBadDDProperties.New()
		}
		dd.instanceID, err = uuid.Parse(raw)
		if err != nil {
			return ErrBadDDProperties.Wrap(err)
		}
		return nil
	})
}

// Descriptors returns the table definitions new tables must be created with.
func (dd *Dictionary) Descriptors() *systables.Descriptors {
	return dd.d
}

// InstanceID identifies the store this dictionary was first created in.
func (dd *Dictionary) InstanceID() uuid.UUID {
	return dd.instanceID
}

// Cache exposes the table cache.
func (dd *Dictionary) Cache() *ddcache.TableCache {
	return dd.cache
}

func (dd *Dictionary) Close() error {
	dd.cache.Purge()
	return dd.store.Close()
}

func (dd *Dictionary) logFor(op string, tbl *dictionary.Table) *logrus.Entry {
	return dd.log.WithFields(logrus.Fields{
		"op":       op,
		"table_id": uint64(tbl.ID()),
		"table":    tbl.SchemaName() + "." + tbl.Name(),
	})
}

// StoreTable validates and writes tbl with its whole object graph in one transaction, assigning ids to new
// objects. Once stored, the table is owned by the caller and any cached copy is invalidated. If the store fails,
// tbl is left as it was before the call: new objects have no id and removed children are still pending, so the
// store can be retried after fixing the cause.
func (dd *Dictionary) StoreTable(ctx context.Context, tbl *dictionary.Table) (err error) {
	defer dd.metrics.observe("store", time.Now(), &err)

	if err = tbl.ValidateTree(); err != nil {
		dd.logFor("store", tbl).WithError(err).Warn("refused to store invalid table")
		return err
	}

	err = rowstore.Update(ctx, dd.store, func(tx rowstore.Tx) error {
		return object.Store(ctx, tx, tbl)
	})
	if err != nil {
		dd.logFor("store", tbl).WithError(err).Warn("failed to store table")
		return err
	}

	dd.cache.Invalidate(tbl.ID())
	dd.logFor("store", tbl).Debug("stored table")
	return nil
}

// AcquireTable returns the stored table with the given id. The result may be shared with other callers and must
// not be modified; use AcquireTableForModification for that.
//
// The dictionary takes no locks. A caller that acquires a table while another stores or drops it must serialize
// the two itself, or it may get either version. A table restored while a store of it commits is returned but not
// cached.
func (dd *Dictionary) AcquireTable(ctx context.Context, id object.ID) (tbl *dictionary.Table, err error) {
	if tbl, ok := dd.cache.Get(id); ok {
		dd.metrics.cacheHit()
		return tbl, nil
	}

	defer dd.metrics.observe("acquire", time.Now(), &err)

	epoch := dd.cache.Epoch()
	tbl, err = dd.restore(ctx, id)
	if err != nil {
		return nil, err
	}

	dd.cache.PutIfCurrent(tbl, epoch)
	return tbl, nil
}

// AcquireTableForModification returns a private copy of the stored table with the given id.
func (dd *Dictionary) AcquireTableForModification(ctx context.Context, id object.ID) (tbl *dictionary.Table, err error) {
	defer dd.metrics.observe("acquire_for_modification", time.Now(), &err)
	return dd.restore(ctx, id)
}

func (dd *Dictionary) restore(ctx context.Context, id object.ID) (*dictionary.Table, error) {
	var tbl *dictionary.Table
	err := rowstore.View(ctx, dd.store, func(tx rowstore.Tx) (err error) {
		tbl, err = dictionary.RestoreTable(ctx, tx, dd.d, id)
		return err
	})
	if err != nil {
		dd.log.WithFields(logrus.Fields{"op": "restore", "table_id": uint64(id)}).WithError(err).Warn("failed to restore table")
		return nil, err
	}

	dd.logFor("restore", tbl).Debug("restored table")
	return tbl, nil
}

// LoadTables acquires every table in ids concurrently. The result is in the order of ids. If any table fails to
// load, the first error is returned.
func (dd *Dictionary) LoadTables(ctx context.Context, ids ...object.ID) ([]*dictionary.Table, error) {
	tables := make([]*dictionary.Table, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(dd.loadLimit)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			tbl, err := dd.AcquireTable(ctx, id)
			if err != nil {
				return err
			}
			tables[i] = tbl
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// DropTable removes the stored table with the given id and everything it owns.
func (dd *Dictionary) DropTable(ctx context.Context, id object.ID) (err error) {
	defer dd.metrics.observe("drop", time.Now(), &err)

	var tbl *dictionary.Table
	err = rowstore.Update(ctx, dd.store, func(tx rowstore.Tx) (err error) {
		tbl, err = dictionary.RestoreTable(ctx, tx, dd.d, id)
		if err != nil {
			return err
		}
		return object.Drop(ctx, tx, tbl)
	})
	dd.cache.Invalidate(id)
	if err != nil {
		dd.log.WithFields(logrus.Fields{"op": "drop", "table_id": uint64(id)}).WithError(err).Warn("failed to drop table")
		return err
	}

	dd.logFor("drop", tbl).Debug("dropped table")
	return nil
}

// TableSDI returns the SDI document of the stored table with the given id.
func (dd *Dictionary) TableSDI(ctx context.Context, id object.ID) ([]byte, error) {
	tbl, err := dd.AcquireTable(ctx, id)
	if err != nil {
		return nil, err
	}
	return sdi.Serialize(tbl)
}

// ImportSDI creates a new stored table from an SDI document and returns it.
func (dd *Dictionary) ImportSDI(ctx context.Context, doc []byte) (tbl *dictionary.Table, err error) {
	tbl, err = sdi.Deserialize(dd.d, doc)
	if err != nil {
		dd.log.WithField("op", "import").WithError(err).Warn("rejected SDI document")
		return nil, err
	}

	if err = dd.StoreTable(ctx, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}
