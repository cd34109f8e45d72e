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
	"time"

	"github.com/dolthub/dictionary/libraries/ddcore/object"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
	"github.com/dolthub/dictionary/store/rowstore"
)

// Trigger is a trigger defined on a Table. Triggers with the same timing and event fire in action order.
type Trigger struct {
	object.Entity
	object.Ordinal
	table *Table

	event       TriggerEvent
	timing      TriggerTiming
	actionOrder uint64
	statement   string
	definer     string
	sqlMode     uint64
	created     time.Time
	lastAltered time.Time
}

var _ object.Object = (*Trigger)(nil)

func newTrigger(t *Table) *Trigger {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &Trigger{table: t, created: now, lastAltered: now}
}

func (tr *Trigger) Table() *Table               { return tr.table }
func (tr *Trigger) Event() TriggerEvent         { return tr.event }
func (tr *Trigger) Timing() TriggerTiming       { return tr.timing }
func (tr *Trigger) ActionOrder() uint64         { return tr.actionOrder }
func (tr *Trigger) SetActionOrder(order uint64) { tr.actionOrder = order }
func (tr *Trigger) Statement() string           { return tr.statement }
func (tr *Trigger) Definer() string             { return tr.definer }
func (tr *Trigger) SetDefiner(definer string)   { tr.definer = definer }
func (tr *Trigger) SQLMode() uint64             { return tr.sqlMode }
func (tr *Trigger) SetSQLMode(mode uint64)      { tr.sqlMode = mode }
func (tr *Trigger) Created() time.Time          { return tr.created }
func (tr *Trigger) LastAltered() time.Time      { return tr.lastAltered }

// SetTimes overrides the creation and modification times, e.g. when importing a trigger.
func (tr *Trigger) SetTimes(created, lastAltered time.Time) {
	tr.created = created.UTC().Truncate(time.Microsecond)
	tr.lastAltered = lastAltered.UTC().Truncate(time.Microsecond)
}

func (tr *Trigger) SetStatement(statement string) {
	tr.statement = statement
	tr.lastAltered = time.Now().UTC().Truncate(time.Microsecond)
}

func (tr *Trigger) ObjectType() string {
	return "trigger"
}

func (tr *Trigger) ObjectTable() *rowstore.TableDef {
	return tr.table.d.Triggers
}

func (tr *Trigger) Validate() error {
	if tr.table == nil {
		return object.Invalid(tr, "no table associated with trigger")
	}
	if tr.Name() == "" {
		return object.Invalid(tr, "trigger name is empty")
	}
	if tr.statement == "" {
		return object.Invalid(tr, "trigger has no action statement")
	}
	if tr.actionOrder == 0 {
		return object.Invalid(tr, "action order must be positive")
	}
	return nil
}

func (tr *Trigger) RestoreAttributes(rec *rowstore.Record) error {
	tr.SetName(rec.String(systables.TriggersName))
	if err := object.CheckParentConsistency(tr, tr.table, rec.Uint(systables.TriggersTableID)); err != nil {
		return err
	}

	tr.event = TriggerEvent(rec.Int(systables.TriggersEventType))
	tr.timing = TriggerTiming(rec.Int(systables.TriggersActionTiming))
	tr.actionOrder = rec.Uint(systables.TriggersActionOrder)
	tr.statement = rec.String(systables.TriggersActionStatement)
	tr.definer = rec.String(systables.TriggersDefiner)
	tr.sqlMode = rec.Uint(systables.TriggersSQLMode)
	tr.created = time.UnixMicro(rec.Int(systables.TriggersCreated)).UTC()
	tr.lastAltered = time.UnixMicro(rec.Int(systables.TriggersLastAltered)).UTC()
	return nil
}

func (tr *Trigger) StoreAttributes(rec *rowstore.Record) error {
	rec.SetUint(systables.TriggersTableID, uint64(tr.table.ID()))
	rec.SetString(systables.TriggersName, tr.Name())
	rec.SetInt(systables.TriggersEventType, int64(tr.event))
	rec.SetInt(systables.TriggersActionTiming, int64(tr.timing))
	rec.SetUint(systables.TriggersActionOrder, tr.actionOrder)
	rec.SetString(systables.TriggersActionStatement, tr.statement)
	rec.SetString(systables.TriggersDefiner, tr.definer)
	rec.SetUint(systables.TriggersSQLMode, tr.sqlMode)
	rec.SetInt(systables.TriggersCreated, tr.created.UnixMicro())
	rec.SetInt(systables.TriggersLastAltered, tr.lastAltered.UnixMicro())
	return nil
}

func (tr *Trigger) RestoreChildren(context.Context, rowstore.Tx) error { return nil }
func (tr *Trigger) StoreChildren(context.Context, rowstore.Tx) error   { return nil }
func (tr *Trigger) DropChildren(context.Context, rowstore.Tx) error    { return nil }

// triggerLess orders triggers by timing, then event, then action order.
func triggerLess(a, b *Trigger) bool {
	if a.timing != b.timing {
		return a.timing < b.timing
	}
	if a.event != b.event {
		return a.event < b.event
	}
	return a.actionOrder < b.actionOrder
}
