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

package dtestutils

import (
	"github.com/dolthub/dictionary/libraries/ddcore/dictionary"
	"github.com/dolthub/dictionary/libraries/ddcore/systables"
)

const (
	TestSchema         = "db1"
	EmployeesName      = "employees"
	DepartmentsName    = "departments"
	EmployeeColumns    = 5
	EmployeeIndexes    = 4
	EmployeeTriggers   = 3
	EmployeePartitions = 2
)

// EmployeesTable returns an unstored table that uses every kind of child object. It has a self referencing foreign
// key backed by its primary key and a foreign key to DepartmentsTable.
func EmployeesTable(d *systables.Descriptors) *dictionary.Table {
	tbl := dictionary.NewTable(d, TestSchema, EmployeesName)
	tbl.SetComment("people")
	tbl.Options().SetUint64("avg_row_length", 128)
	tbl.SEPrivateData().Set("space_id", "42")

	id := tbl.AddColumn("id", dictionary.ColumnTypeLongLong)
	id.SetNullable(false)
	id.SetUnsigned(true)
	id.SetAutoIncrement(true)
	id.SetNumericPrecision(20)
	id.SetNumericScale(0)

	manager := tbl.AddColumn("manager_id", dictionary.ColumnTypeLongLong)
	manager.SetUnsigned(true)

	dept := tbl.AddColumn("dept_id", dictionary.ColumnTypeLong)

	name := tbl.AddColumn("name", dictionary.ColumnTypeVarchar)
	name.SetCharLength(255)
	name.SetDefaultValue([]byte{})
	name.SetDefaultValueUTF8("")
	name.SetComment("full name")

	status := tbl.AddColumn("status", dictionary.ColumnTypeEnum)
	status.AddElement([]byte("active"))
	status.AddElement([]byte("retired"))
	status.Options().Set("interval_count", "2")

	pk := tbl.AddIndex("PRIMARY", dictionary.IndexTypePrimary)
	pk.AddElement(id)
	byManager := tbl.AddIndex("idx_manager", dictionary.IndexTypeMultiple)
	byManager.AddElement(manager)
	byDept := tbl.AddIndex("idx_dept", dictionary.IndexTypeMultiple)
	byDept.AddElement(dept)
	byName := tbl.AddIndex("idx_name", dictionary.IndexTypeMultiple)
	byName.AddElement(name).SetLength(16)

	self := tbl.AddForeignKey("fk_manager", TestSchema, EmployeesName)
	self.SetUniqueConstraint(pk)
	self.SetDeleteRule(dictionary.RuleSetNull)
	self.AddElement(manager, "id")

	toDept := tbl.AddForeignKey("fk_dept", TestSchema, DepartmentsName)
	toDept.SetUniqueConstraintName("PRIMARY")
	toDept.SetUpdateRule(dictionary.RuleCascade)
	toDept.AddElement(dept, "id")

	tbl.SetPartitioning(dictionary.PartitionTypeHash, "id")
	for _, n := range []string{"p0", "p1"} {
		p := tbl.AddPartition(n)
		tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
			p.AddIndex(idx)
			return false
		})
	}

	tbl.AddTrigger("after_upd", dictionary.TimingAfter, dictionary.EventUpdate, "SET @n = @n + 1")
	tbl.AddTrigger("bi1", dictionary.TimingBefore, dictionary.EventInsert, "SET NEW.name = TRIM(NEW.name)")
	tbl.AddTrigger("bi2", dictionary.TimingBefore, dictionary.EventInsert, "SET NEW.status = 'active'")
	return tbl
}

// DepartmentsTable returns an unstored two column table with a primary key.
func DepartmentsTable(d *systables.Descriptors) *dictionary.Table {
	tbl := dictionary.NewTable(d, TestSchema, DepartmentsName)

	id := tbl.AddColumn("id", dictionary.ColumnTypeLong)
	id.SetNullable(false)
	name := tbl.AddColumn("name", dictionary.ColumnTypeVarchar)
	name.SetCharLength(64)

	tbl.AddIndex("PRIMARY", dictionary.IndexTypePrimary).AddElement(id)
	tbl.AddIndex("uk_name", dictionary.IndexTypeUnique).AddElement(name)
	return tbl
}

// ColumnNames returns the names of tbl's columns in ordinal order.
func ColumnNames(tbl *dictionary.Table) []string {
	var names []string
	tbl.Columns().Iter(func(c *dictionary.Column) bool {
		names = append(names, c.Name())
		return false
	})
	return names
}

// IndexNames returns the names of tbl's indexes in ordinal order.
func IndexNames(tbl *dictionary.Table) []string {
	var names []string
	tbl.Indexes().Iter(func(idx *dictionary.Index) bool {
		names = append(names, idx.Name())
		return false
	})
	return names
}

// TriggerNames returns the names of tbl's triggers in collection order.
func TriggerNames(tbl *dictionary.Table) []string {
	var names []string
	tbl.Triggers().Iter(func(tr *dictionary.Trigger) bool {
		names = append(names, tr.Name())
		return false
	})
	return names
}
