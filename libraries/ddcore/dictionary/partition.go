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

package dictionary

import (
	"context"

	"github.com/dolthub/dictionary/libraries/ddcore/collection"
	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/properties"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

// Partition is a partition of a partitioned Table. Its partition number is its ordinal position minus one.
type Partition struct {
	object.Entity
	object.Ordinal
	table *Table

	engine          string
	description     string
	descriptionNull bool
	comment         string
	options         *properties.Properties
	sePrivateData   *properties.Properties
	sePrivateID     uint64

	indexes *collection.Collection[*PartitionIndex]
}

var _ object.Object = (*Partition)(nil)

func newPartition(t *Table) *Partition {
	return &Partition{
		table:           t,
		descriptionNull: true,
		options:         properties.New(),
		sePrivateData:   properties.New(),
		indexes:         collection.New[*PartitionIndex](),
	}
}

func (p *Partition) Table() *Table                         { return p.table }
func (p *Partition) Number() uint                          { return p.OrdinalPosition() - 1 }
func (p *Partition) Engine() string                        { return p.engine }
func (p *Partition) SetEngine(engine string)               { p.engine = engine }
func (p *Partition) Comment() string                       { return p.comment }
func (p *Partition) SetComment(comment string)             { p.comment = comment }
func (p *Partition) SEPrivateID() uint64                   { return p.sePrivateID }
func (p *Partition) SetSEPrivateID(id uint64)              { p.sePrivateID = id }
func (p *Partition) Options() *properties.Properties       { return p.options }
func (p *Partition) SEPrivateData() *properties.Properties { return p.sePrivateData }

// Description returns the VALUES clause of a RANGE or LIST partition.
func (p *Partition) Description() string { return p.description }

func (p *Partition) SetDescription(desc string) {
	p.description = desc
	p.descriptionNull = false
}

func (p *Partition) IsDescriptionNull() bool { return p.descriptionNull }

// Indexes returns the per partition state of the table's indexes.
func (p *Partition) Indexes() *collection.Collection[*PartitionIndex] {
	return p.indexes
}

// AddIndex appends the partition's part of idx, which must be an index of the partition's table.
func (p *Partition) AddIndex(idx *Index) *PartitionIndex {
	pi := newPartitionIndex(p)
	pi.index = idx
	return p.indexes.PushBack(pi)
}

func (p *Partition) ObjectType() string {
	return "partition"
}

func (p *Partition) ObjectTable() *rowstore.TableDef {
	return p.table.d.Partitions
}

func (p *Partition) Validate() error {
	if p.table == nil {
		return object.Invalid(p, "no table associated with partition")
	}
	if p.Name() == "" {
		return object.Invalid(p, "partition name is empty")
	}
	if p.engine == "" {
		return object.Invalid(p, "no engine associated with partition")
	}
	return nil
}

func (p *Partition) RestoreAttributes(rec *rowstore.Record) error {
	p.SetName(rec.String(systables.PartitionsName))
	if err := object.CheckParentConsistency(p, p.table, rec.Uint(systables.PartitionsTableID)); err != nil {
		return err
	}

	p.SetOrdinalPosition(uint(rec.Uint(systables.PartitionsNumber)) + 1)
	p.engine = rec.String(systables.PartitionsEngine)
	p.descriptionNull = rec.IsNull(systables.PartitionsDescriptionUTF8)
	p.description = ""
	if !p.descriptionNull {
		p.description = rec.String(systables.PartitionsDescriptionUTF8)
	}
	p.comment = rec.String(systables.PartitionsComment)
	p.sePrivateID = nullableUint(rec, systables.PartitionsSEPrivateID)

	var err error
	if p.options, err = object.ParseProperties(p, "options", rec.String(systables.PartitionsOptions)); err != nil {
		return err
	}
	p.sePrivateData, err = object.ParseProperties(p, "se_private_data", rec.String(systables.PartitionsSEPrivateData))
	return err
}

func (p *Partition) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.PartitionsTableID, uint64(p.table.ID()))
	rec.SetString(systables.PartitionsName, p.Name())
	rec.SetUint(systables.PartitionsNumber, uint64(p.Number()))
	rec.SetString(systables.PartitionsEngine, p.engine)
	if p.descriptionNull {
		rec.SetNull(systables.PartitionsDescriptionUTF8)
	} else {
		rec.SetString(systables.PartitionsDescriptionUTF8, p.description)
	}
	rec.SetString(systables.PartitionsComment, p.comment)
	rec.SetString(systables.PartitionsOptions, p.options.RawString())
	rec.SetString(systables.PartitionsSEPrivateData, p.sePrivateData.RawString())
	setNullableUint(rec, systables.PartitionsSEPrivateID, p.sePrivateID)
	return nil
}

func (p *Partition) indexKey() rowstore.Key {
	return rowstore.NewParentKey(systables.IndexPartitionsPartitionID, uint64(p.ID()))
}

func (p *Partition) RestoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return p.indexes.RestoreItems(ctx, tx, p.table.d.IndexPartitions, p.indexKey(),
		func() *PartitionIndex { return newPartitionIndex(p) }, partitionIndexLess)
}

func (p *Partition) StoreChildren(ctx context.Context, tx rowstore.Tx) error {
	return p.indexes.StoreItems(ctx, tx)
}

func (p *Partition) DropChildren(ctx context.Context, tx rowstore.Tx) error {
	return p.indexes.DropItems(ctx, tx, p.table.d.IndexPartitions, p.indexKey())
}

// PartitionIndex is the part of an index that lives in one partition.
type PartitionIndex struct {
	object.Entity
	object.Ordinal
	partition     *Partition
	index         *Index
	options       *properties.Properties
	sePrivateData *properties.Properties
}

var _ object.Object = (*PartitionIndex)(nil)

func newPartitionIndex(p *Partition) *PartitionIndex {
	return &PartitionIndex{
		partition:     p,
		options:       properties.New(),
		sePrivateData: properties.New(),
	}
}

func (pi *PartitionIndex) Partition() *Partition                 { return pi.partition }
func (pi *PartitionIndex) Index() *Index                         { return pi.index }
func (pi *PartitionIndex) Options() *properties.Properties       { return pi.options }
func (pi *PartitionIndex) SEPrivateData() *properties.Properties { return pi.sePrivateData }

// Name returns the name of the index.
func (pi *PartitionIndex) Name() string {
	if pi.index == nil {
		return ""
	}
	return pi.index.Name()
}

func (pi *PartitionIndex) ObjectType() string {
	return "partition index"
}

func (pi *PartitionIndex) ObjectTable() *rowstore.TableDef {
	return pi.partition.table.d.IndexPartitions
}

func (pi *PartitionIndex) Validate() error {
	if pi.partition == nil {
		return object.Invalid(pi, "no partition associated with partition index")
	}
	if !pi.partition.table.ownsIndex(pi.index) {
		return object.Invalid(pi, "partition '%s' references an index which is not an index of table '%s'", pi.partition.Name(), pi.partition.table.Name())
	}
	return nil
}

func (pi *PartitionIndex) RestoreAttributes(rec *rowstore.Record) error {
	if err := object.CheckParentConsistency(pi, pi.partition, rec.Uint(systables.IndexPartitionsPartitionID)); err != nil {
		return err
	}

	idxID := object.ID(rec.Uint(systables.IndexPartitionsIndexID))
	if pi.index = pi.partition.table.IndexByID(idxID); pi.index == nil {
		return object.ErrReferenceNotFound.New(pi.partition.ObjectType(), pi.partition.Name(), "index", idxID)
	}

	var err error
	if pi.options, err = object.ParseProperties(pi, "options", rec.String(systables.IndexPartitionsOptions)); err != nil {
		return err
	}
	pi.sePrivateData, err = object.ParseProperties(pi, "se_private_data", rec.String(systables.IndexPartitionsSEPrivateData))
	return err
}

func (pi *PartitionIndex) StoreAttributes(rec *rowstore.Record) error {
	if !pi.index.ID().IsValid() {
		return object.Invalid(pi, "index has not been stored")
	}
	rec.SetUint(systables.IndexPartitionsPartitionID, uint64(pi.partition.ID()))
	rec.SetUint(systables.IndexPartitionsIndexID, uint64(pi.index.ID()))
	rec.SetString(systables.IndexPartitionsOptions, pi.options.RawString())
	rec.SetString(systables.IndexPartitionsSEPrivateData, pi.sePrivateData.RawString())
	return nil
}

func (pi *PartitionIndex) RestoreChildren(context.Context, rowstore.Tx) error { return nil }
func (pi *PartitionIndex) StoreChildren(context.Context, rowstore.Tx) error   { return nil }
func (pi *PartitionIndex) DropChildren(context.Context, rowstore.Tx) error    { return nil }

// partitionIndexLess orders a partition's indexes the way the table orders them.
func partitionIndexLess(a, b *PartitionIndex) bool {
	return a.index.OrdinalPosition() < b.index.OrdinalPosition()
}
