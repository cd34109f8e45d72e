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
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const idColumn = "id"

// SQLStore keeps dictionary tables as real tables of a MySQL schema. Each table gets an auto increment id
// column followed by one column per field.
type SQLStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQLStore connects to the MySQL server described by dsn. The connection is not verified; use Ping.
func OpenSQLStore(dsn string) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	cfg.InterpolateParams = true

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// NewSQLStore wraps an existing connection pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Init(ctx context.Context, defs ...*TableDef) error {
	for _, def := range defs {
		if _, err := s.db.ExecContext(ctx, createTableStatement(def)); err != nil {
			return fmt.Errorf("creating dictionary table %s: %w", def.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) Begin(ctx context.Context, writable bool) (Tx, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: !writable})
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, writable: writable}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func sqlType(f FieldDef) string {
	var t string
	switch f.Kind {
	case IntKind:
		t = "BIGINT"
	case UintKind:
		t = "BIGINT UNSIGNED"
	case BoolKind:
		t = "TINYINT(1)"
	case StringKind:
		t = "LONGTEXT"
	case BinaryKind:
		t = "LONGBLOB"
	default:
		panic(fmt.Sprintf("unknown field kind %v", f.Kind))
	}
	if f.Nullable {
		return t + " NULL"
	}
	return t + " NOT NULL"
}

func createTableStatement(def *TableDef) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(quoteIdent(def.Name))
	sb.WriteString(" (")
	sb.WriteString(quoteIdent(idColumn))
	sb.WriteString(" BIGINT UNSIGNED NOT NULL AUTO_INCREMENT")
	for _, f := range def.Fields {
		sb.WriteString(", ")
		sb.WriteString(quoteIdent(f.Name))
		sb.WriteString(" ")
		sb.WriteString(sqlType(f))
	}
	sb.WriteString(", PRIMARY KEY (")
	sb.WriteString(quoteIdent(idColumn))
	sb.WriteString(")) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin")
	return sb.String()
}

func selectColumns(def *TableDef) string {
	cols := make([]string, 0, len(def.Fields)+1)
	cols = append(cols, quoteIdent(idColumn))
	for _, f := range def.Fields {
		cols = append(cols, quoteIdent(f.Name))
	}
	return strings.Join(cols, ", ")
}

func insertStatement(def *TableDef) string {
	cols := make([]string, len(def.Fields))
	marks := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		cols[i] = quoteIdent(f.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(def.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func updateStatement(def *TableDef) string {
	sets := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		sets[i] = quoteIdent(f.Name) + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quoteIdent(def.Name), strings.Join(sets, ", "), quoteIdent(idColumn))
}

func toSQLArgs(rec *Record) []interface{} {
	args := make([]interface{}, len(rec.values))
	for i, v := range rec.values {
		if v.Null {
			args[i] = nil
			continue
		}
		switch rec.def.Fields[i].Kind {
		case IntKind, BoolKind:
			args[i] = v.Int
		case UintKind:
			args[i] = v.Uint
		case StringKind:
			args[i] = v.Str
		case BinaryKind:
			if v.Bin == nil {
				args[i] = []byte{}
			} else {
				args[i] = v.Bin
			}
		}
	}
	return args
}

func fromSQLValue(kind FieldKind, src interface{}) (Value, error) {
	if src == nil {
		return Value{Null: true}, nil
	}

	var text string
	switch t := src.(type) {
	case int64:
		if kind == UintKind {
			return Value{Uint: uint64(t)}, nil
		}
		return Value{Int: t}, nil
	case uint64:
		if kind == UintKind {
			return Value{Uint: t}, nil
		}
		return Value{Int: int64(t)}, nil
	case []byte:
		if kind == BinaryKind {
			return Value{Bin: append([]byte{}, t...)}, nil
		}
		text = string(t)
	case string:
		if kind == BinaryKind {
			return Value{Bin: []byte(t)}, nil
		}
		text = t
	default:
		return Value{}, fmt.Errorf("unexpected sql value of type %T", src)
	}

	switch kind {
	case IntKind, BoolKind:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Int: i}, nil
	case UintKind:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{Uint: u}, nil
	default:
		return Value{Str: text}, nil
	}
}

type sqlTx struct {
	tx       *sqlx.Tx
	writable bool
	done     bool
}

func (tx *sqlTx) Table(def *TableDef) (Table, error) {
	if tx.done {
		return nil, ErrTxDone.New()
	}
	return &sqlTable{tx: tx, def: def}, nil
}

func (tx *sqlTx) Writable() bool {
	return tx.writable
}

func (tx *sqlTx) Commit() error {
	if tx.done {
		return ErrTxDone.New()
	}
	tx.done = true
	return tx.tx.Commit()
}

func (tx *sqlTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	return tx.tx.Rollback()
}

type sqlTable struct {
	tx  *sqlTx
	def *TableDef
}

func (st *sqlTable) Def() *TableDef {
	return st.def
}

func (st *sqlTable) checkWritable() error {
	if st.tx.done {
		return ErrTxDone.New()
	}
	if !st.tx.writable {
		return ErrReadOnlyTx.New(st.def.Name)
	}
	return nil
}

func (st *sqlTable) Insert(ctx context.Context, rec *Record) (uint64, error) {
	if err := st.checkWritable(); err != nil {
		return 0, err
	}
	if err := checkRecord(st.def, rec); err != nil {
		return 0, err
	}

	res, err := st.tx.tx.ExecContext(ctx, insertStatement(st.def), toSQLArgs(rec)...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (st *sqlTable) Update(ctx context.Context, id uint64, rec *Record) error {
	if err := st.checkWritable(); err != nil {
		return err
	}
	if err := checkRecord(st.def, rec); err != nil {
		return err
	}
	if _, err := st.Get(ctx, id); err != nil {
		return err
	}

	args := append(toSQLArgs(rec), id)
	_, err := st.tx.tx.ExecContext(ctx, updateStatement(st.def), args...)
	return err
}

func (st *sqlTable) scan(rows *sqlx.Rows) ([]*Record, error) {
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		idVal, err := fromSQLValue(UintKind, cols[0])
		if err != nil {
			return nil, err
		}
		rec := st.def.NewRecord()
		rec.id = idVal.Uint
		for i, f := range st.def.Fields {
			if rec.values[i], err = fromSQLValue(f.Kind, cols[i+1]); err != nil {
				return nil, fmt.Errorf("reading %s.%s: %w", st.def.Name, f.Name, err)
			}
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (st *sqlTable) Get(ctx context.Context, id uint64) (*Record, error) {
	if st.tx.done {
		return nil, ErrTxDone.New()
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", selectColumns(st.def), quoteIdent(st.def.Name), quoteIdent(idColumn))
	rows, err := st.tx.tx.QueryxContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	recs, err := st.scan(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrRowNotFound.New(id, st.def.Name)
	}
	return recs[0], nil
}

func (st *sqlTable) Find(ctx context.Context, key Key) ([]*Record, error) {
	if st.tx.done {
		return nil, ErrTxDone.New()
	}
	if err := key.validate(st.def); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY %s", selectColumns(st.def), quoteIdent(st.def.Name),
		quoteIdent(st.def.Fields[key.Field].Name), quoteIdent(idColumn))
	rows, err := st.tx.tx.QueryxContext(ctx, q, key.Value)
	if err != nil {
		return nil, err
	}
	return st.scan(rows)
}

func (st *sqlTable) Delete(ctx context.Context, id uint64) error {
	if err := st.checkWritable(); err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(st.def.Name), quoteIdent(idColumn))
	res, err := st.tx.tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRowNotFound.New(id, st.def.Name)
	}
	return nil
}

func (st *sqlTable) DeleteMatching(ctx context.Context, key Key) (int, error) {
	if err := st.checkWritable(); err != nil {
		return 0, err
	}
	if err := key.validate(st.def); err != nil {
		return 0, err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(st.def.Name), quoteIdent(st.def.Fields[key.Field].Name))
	res, err := st.tx.tx.ExecContext(ctx, q, key.Value)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
