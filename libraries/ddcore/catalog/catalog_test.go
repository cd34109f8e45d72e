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
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/dtestutils"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/sdi"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

type DictionarySuite struct {
	suite.Suite
	newStore func(t *testing.T) rowstore.Store

	ctx   context.Context
	dd    *Dictionary
	store *faultyStore
	reg   *prometheus.Registry
	hook  *logtest.Hook
}

var errInjected = errors.New("injected insert failure")

// faultyStore fails every insert into the table named by failInserts.
type faultyStore struct {
	rowstore.Store
	failInserts string
}

func (s *faultyStore) Begin(ctx context.Context, writable bool) (rowstore.Tx, error) {
	tx, err := s.Store.Begin(ctx, writable)
	if err != nil {
		return nil, err
	}
	return &faultyTx{Tx: tx, store: s}, nil
}

type faultyTx struct {
	rowstore.Tx
	store *faultyStore
}

func (tx *faultyTx) Table(def *rowstore.TableDef) (rowstore.Table, error) {
	tbl, err := tx.Tx.Table(def)
	if err != nil || def.Name != tx.store.failInserts {
		return tbl, err
	}
	return faultyTable{Table: tbl}, nil
}

type faultyTable struct {
	rowstore.Table
}

func (faultyTable) Insert(context.Context, *rowstore.Record) (uint64, error) {
	return 0, errInjected
}

func TestMemDictionary(t *testing.T) {
	suite.Run(t, &DictionarySuite{newStore: func(*testing.T) rowstore.Store {
		return rowstore.NewMemStore()
	}})
}

func TestBoltDictionary(t *testing.T) {
	suite.Run(t, &DictionarySuite{newStore: func(t *testing.T) rowstore.Store {
		s, err := rowstore.OpenBoltStore(filepath.Join(t.TempDir(), "dd.db"), time.Second)
		require.NoError(t, err)
		return s
	}})
}

func (suite *DictionarySuite) SetupTest() {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	suite.ctx = context.Background()
	suite.reg = prometheus.NewRegistry()
	suite.hook = hook
	suite.store = &faultyStore{Store: suite.newStore(suite.T())}

	dd, err := Open(suite.ctx, Args{
		Store:      suite.store,
		Logger:     logrus.NewEntry(logger),
		CacheSize:  16,
		Registerer: suite.reg,
		Namespace:  "test",
	})
	suite.Require().NoError(err)
	suite.dd = dd
}

func (suite *DictionarySuite) TearDownTest() {
	suite.NoError(suite.dd.Close())
}

func (suite *DictionarySuite) storeEmployees() *dictionary.Table {
	tbl := dtestutils.EmployeesTable(suite.dd.Descriptors())
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))
	suite.Require().True(tbl.ID().IsValid())
	return tbl
}

func (suite *DictionarySuite) TestInstanceID() {
	suite.NotEqual(uuid.Nil, suite.dd.InstanceID())
}

func (suite *DictionarySuite) TestAcquireIsCached() {
	stored := suite.storeEmployees()

	first, err := suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	suite.NotSame(stored, first)
	suite.Equal(dtestutils.ColumnNames(stored), dtestutils.ColumnNames(first))

	second, err := suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	suite.Same(first, second)

	private, err := suite.dd.AcquireTableForModification(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	suite.NotSame(first, private)

	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.cacheHits))
	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.ops.WithLabelValues("acquire", "ok")))
	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.ops.WithLabelValues("store", "ok")))
}

func (suite *DictionarySuite) TestModifyAndStore() {
	stored := suite.storeEmployees()

	cached, err := suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.Require().NoError(err)

	tbl, err := suite.dd.AcquireTableForModification(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	tbl.SetComment("staff")
	tbl.AddColumn("email", dictionary.ColumnTypeVarchar).SetCharLength(128)
	tbl.DropTrigger(tbl.TriggerByName("after_upd"))
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))

	// the shared copy is left untouched, the next acquire sees the change
	suite.Equal("people", cached.Comment())
	reloaded, err := suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	suite.NotSame(cached, reloaded)
	suite.Equal("staff", reloaded.Comment())
	suite.Equal(append(dtestutils.ColumnNames(stored), "email"), dtestutils.ColumnNames(reloaded))
	suite.Equal([]string{"bi1", "bi2"}, dtestutils.TriggerNames(reloaded))
}

func (suite *DictionarySuite) TestLoadTables() {
	depts := dtestutils.DepartmentsTable(suite.dd.Descriptors())
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, depts))
	emps := suite.storeEmployees()

	tables, err := suite.dd.LoadTables(suite.ctx, emps.ID(), depts.ID(), emps.ID())
	suite.Require().NoError(err)
	suite.Require().Len(tables, 3)
	suite.Equal(dtestutils.EmployeesName, tables[0].Name())
	suite.Equal(dtestutils.DepartmentsName, tables[1].Name())
	suite.Equal(dtestutils.EmployeesName, tables[2].Name())

	_, err = suite.dd.LoadTables(suite.ctx, depts.ID(), 9999)
	suite.True(object.ErrObjectNotFound.Is(err), "unexpected error: %v", err)

	tables, err = suite.dd.LoadTables(suite.ctx)
	suite.NoError(err)
	suite.Empty(tables)
}

func (suite *DictionarySuite) TestDropTable() {
	stored := suite.storeEmployees()
	_, err := suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	suite.Equal(1, suite.dd.Cache().Len())

	suite.Require().NoError(suite.dd.DropTable(suite.ctx, stored.ID()))
	suite.Equal(0, suite.dd.Cache().Len())

	_, err = suite.dd.AcquireTable(suite.ctx, stored.ID())
	suite.True(object.ErrObjectNotFound.Is(err))

	err = suite.dd.DropTable(suite.ctx, stored.ID())
	suite.True(object.ErrObjectNotFound.Is(err))
	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.ops.WithLabelValues("drop", "error")))
	suite.Equal(logrus.WarnLevel, suite.hook.LastEntry().Level)
	suite.Equal("drop", suite.hook.LastEntry().Data["op"])

	// every row of the graph is gone
	suite.NoError(rowstore.View(suite.ctx, suite.dd.store, func(tx rowstore.Tx) error {
		for _, def := range suite.dd.Descriptors().All() {
			if def == suite.dd.Descriptors().DDProperties {
				continue
			}
			tbl, err := tx.Table(def)
			suite.Require().NoError(err)
			for id := uint64(1); id < 64; id++ {
				_, err = tbl.Get(suite.ctx, id)
				suite.True(rowstore.ErrRowNotFound.Is(err), "%s row %d still exists", def.Name, id)
			}
		}
		return nil
	}))
}

func (suite *DictionarySuite) TestStoreInvalidTable() {
	tbl := dictionary.NewTable(suite.dd.Descriptors(), "db1", "empty")
	err := suite.dd.StoreTable(suite.ctx, tbl)
	suite.True(object.ErrValidation.Is(err))
	suite.False(tbl.ID().IsValid())
	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.ops.WithLabelValues("store", "error")))
}

func (suite *DictionarySuite) TestStoreFailsPartway() {
	d := suite.dd.Descriptors()
	tbl := dtestutils.EmployeesTable(d)

	suite.store.failInserts = d.Triggers.Name
	err := suite.dd.StoreTable(suite.ctx, tbl)
	suite.Require().ErrorIs(err, errInjected)
	suite.False(tbl.ID().IsValid())
	tbl.Columns().Iter(func(c *dictionary.Column) bool {
		suite.False(c.ID().IsValid(), c.Name())
		return false
	})
	tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
		suite.False(idx.ID().IsValid(), idx.Name())
		return false
	})
	suite.Equal(1.0, testutil.ToFloat64(suite.dd.metrics.ops.WithLabelValues("store", "error")))

	suite.store.failInserts = ""
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))
	suite.Require().True(tbl.ID().IsValid())

	reloaded, err := suite.dd.AcquireTable(suite.ctx, tbl.ID())
	suite.Require().NoError(err)
	suite.Equal(dtestutils.ColumnNames(tbl), dtestutils.ColumnNames(reloaded))
	suite.Equal(dtestutils.TriggerNames(tbl), dtestutils.TriggerNames(reloaded))
	suite.Same(reloaded.IndexByName("PRIMARY"), reloaded.ForeignKeyByName("fk_manager").UniqueConstraint())
}

func (suite *DictionarySuite) TestStoreRetryAfterInvalidTrigger() {
	tbl := dtestutils.EmployeesTable(suite.dd.Descriptors())
	bad := tbl.AddTrigger("bad", dictionary.TimingBefore, dictionary.EventDelete, "")

	err := suite.dd.StoreTable(suite.ctx, tbl)
	suite.Require().True(object.ErrValidation.Is(err), "unexpected error %v", err)
	suite.False(tbl.ID().IsValid())

	bad.SetStatement("SET @deleted = @deleted + 1")
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))

	reloaded, err := suite.dd.AcquireTable(suite.ctx, tbl.ID())
	suite.Require().NoError(err)
	suite.Contains(dtestutils.TriggerNames(reloaded), "bad")
}

func (suite *DictionarySuite) TestRemovedChildSurvivesFailedStore() {
	stored := suite.storeEmployees()
	tbl, err := suite.dd.AcquireTableForModification(suite.ctx, stored.ID())
	suite.Require().NoError(err)
	tbl.AddColumn("email", dictionary.ColumnTypeVarchar).SetCharLength(128)
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))
	before := dtestutils.ColumnNames(tbl)

	// rejected before anything is written
	tbl.DropColumn(tbl.ColumnByName("email"))
	bad := tbl.AddTrigger("bad", dictionary.TimingBefore, dictionary.EventDelete, "")
	err = suite.dd.StoreTable(suite.ctx, tbl)
	suite.Require().True(object.ErrValidation.Is(err), "unexpected error %v", err)
	suite.True(tbl.Columns().HasRemovedItems())

	// the column row is deleted before the trigger insert fails
	bad.SetStatement("SET @deleted = @deleted + 1")
	suite.store.failInserts = suite.dd.Descriptors().Triggers.Name
	err = suite.dd.StoreTable(suite.ctx, tbl)
	suite.Require().ErrorIs(err, errInjected)
	suite.True(tbl.Columns().HasRemovedItems())
	suite.False(bad.ID().IsValid())

	reloaded, err := suite.dd.AcquireTable(suite.ctx, tbl.ID())
	suite.Require().NoError(err)
	suite.Equal(before, dtestutils.ColumnNames(reloaded))

	suite.store.failInserts = ""
	suite.Require().NoError(suite.dd.StoreTable(suite.ctx, tbl))
	suite.False(tbl.Columns().HasRemovedItems())

	reloaded, err = suite.dd.AcquireTable(suite.ctx, tbl.ID())
	suite.Require().NoError(err)
	suite.Len(dtestutils.ColumnNames(reloaded), len(before)-1)
	suite.NotContains(dtestutils.ColumnNames(reloaded), "email")
	suite.Contains(dtestutils.TriggerNames(reloaded), "bad")
}

func (suite *DictionarySuite) TestSDIExportImport() {
	stored := suite.storeEmployees()

	doc, err := suite.dd.TableSDI(suite.ctx, stored.ID())
	suite.Require().NoError(err)

	info, err := sdi.Header(doc)
	suite.Require().NoError(err)
	suite.Equal(dtestutils.EmployeesName, info.Name)

	imported, err := suite.dd.ImportSDI(suite.ctx, doc)
	suite.Require().NoError(err)
	suite.NotEqual(stored.ID(), imported.ID())

	reloaded, err := suite.dd.AcquireTable(suite.ctx, imported.ID())
	suite.Require().NoError(err)
	suite.Equal(dtestutils.ColumnNames(stored), dtestutils.ColumnNames(reloaded))
	suite.Equal(dtestutils.IndexNames(stored), dtestutils.IndexNames(reloaded))
	suite.Same(reloaded.IndexByName("PRIMARY"), reloaded.ForeignKeyByName("fk_manager").UniqueConstraint())

	_, err = suite.dd.ImportSDI(suite.ctx, []byte(`{"sdi_version":1,"dd_version":1,"dd_object_type":"Table","dd_object":{}}`))
	suite.True(sdi.ErrSDIVersion.Is(err))
}

func TestReopenKeepsInstanceID(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dd.db")

	open := func() *Dictionary {
		s, err := rowstore.OpenBoltStore(path, time.Second)
		require.NoError(t, err)
		dd, err := Open(ctx, Args{Store: s})
		require.NoError(t, err)
		return dd
	}

	dd := open()
	id := dd.InstanceID()
	tbl := dtestutils.DepartmentsTable(dd.Descriptors())
	require.NoError(t, dd.StoreTable(ctx, tbl))
	require.NoError(t, dd.Close())

	dd = open()
	defer dd.Close()
	assert.Equal(t, id, dd.InstanceID())

	reloaded, err := dd.AcquireTable(ctx, tbl.ID())
	require.NoError(t, err)
	assert.Equal(t, dtestutils.ColumnNames(tbl), dtestutils.ColumnNames(reloaded))
}

func TestVersionMismatch(t *testing.T) {
	ctx := context.Background()
	d := systables.NewDescriptors()
	s := rowstore.NewMemStore()
	require.NoError(t, s.Init(ctx, d.All()...))

	writeProps := func(raw string) {
		require.NoError(t, rowstore.Update(ctx, s, func(tx rowstore.Tx) error {
			tbl, err := tx.Table(d.DDProperties)
			if err != nil {
				return err
			}
			rec := d.DDProperties.NewRecord()
			rec.SetString(systables.DDPropertiesProperties, raw)
			if _, err = tbl.Get(ctx, ddPropertiesID); err == nil {
				return tbl.Update(ctx, ddPropertiesID, rec)
			}
			_, err = tbl.Insert(ctx, rec)
			return err
		}))
	}

	props := properties.New()
	props.SetUint64(DDVersionKey, systables.DDVersion-1)
	props.Set(InstanceIDKey, uuid.New().String())
	writeProps(props.RawString())

	_, err := Open(ctx, Args{Store: s})
	assert.True(t, ErrVersionMismatch.Is(err), "unexpected error: %v", err)

	writeProps("DD_VERSION=80023;UUID=not-a-uuid;")
	_, err = Open(ctx, Args{Store: s})
	assert.True(t, ErrBadDDProperties.Is(err), "unexpected error: %v", err)

	writeProps("DD_VERSION=80023;OTHER=1;")
	_, err = Open(ctx, Args{Store: s})
	assert.True(t, ErrBadDDProperties.Is(err), "unexpected error: %v", err)
}
