/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

// Package reportstore persists document scan results in a sqlite
// database. Every artifact is stored as a flattened json element in a
// full text searchable table, with one view per element type.
package reportstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"crawshaw.io/sqlite"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/docxscan/flatten"
)

const storeVersion = 1
const reportApplicationID = 0x646F6378 // "docx"
const discriminator = "type"

// The Store is the central storage for artifacts taken from scanned
// word processing documents. It keeps one json element per artifact and
// serves as the single source of truth for a scan. Elements are
// flattened before insertion, so every field shows up as a column in
// the per-type views.
type Store struct {
	cursor *sqlite.Conn
	types  *columnSet
}

// columnSet tracks which fields were seen per element type, so the
// per-type views can be recreated on Close. The store has a single
// writer, so access is not synchronized.
type columnSet struct {
	changed bool
	fields  map[string]map[string]bool
}

func newColumnSet() *columnSet {
	return &columnSet{fields: map[string]map[string]bool{}}
}

func (c *columnSet) add(elementType, field string) {
	if _, ok := c.fields[elementType]; !ok {
		c.fields[elementType] = map[string]bool{}
	}
	if !c.fields[elementType][field] {
		c.fields[elementType][field] = true
		c.changed = true
	}
}

func (c *columnSet) addAll(elementType string, element map[string]interface{}) {
	for field := range element {
		c.add(elementType, field)
	}
}

var ErrStoreExists = fmt.Errorf("store already exists")
var ErrStoreNotExists = fmt.Errorf("store does not exist")

// New creates a new report store.
func New(url string) (*Store, error) {
	return open(url, true)
}

// Open opens an existing report store.
func Open(url string) (*Store, error) {
	return open(url, false)
}

func pragma(conn *sqlite.Conn, name string) (int64, error) {
	stmt, err := conn.Prepare("PRAGMA " + name)
	if err != nil {
		return 0, err
	}
	_, err = stmt.Step()
	if err != nil {
		return 0, err
	}
	i := stmt.GetInt64(name)
	return i, stmt.Finalize()
}

func setPragma(conn *sqlite.Conn, name string, i int64) error {
	stmt, err := conn.Prepare("PRAGMA " + name + " = " + fmt.Sprint(i))
	if err != nil {
		return err
	}
	_, err = stmt.Step()
	if err != nil {
		return err
	}
	return stmt.Finalize()
}

func open(url string, create bool) (*Store, error) { // nolint:gocyclo
	if url != ":memory:" {
		url = strings.TrimRight(url, "/")

		exists := true
		_, err := os.Stat(url)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			exists = false
		}

		if create && exists {
			return nil, ErrStoreExists
		}
		if !create && !exists {
			return nil, ErrStoreNotExists
		}

		if create {
			err = os.MkdirAll(path.Dir(url), 0750)
			if err != nil {
				return nil, err
			}

			_, err := os.Create(url)
			if err != nil {
				return nil, err
			}
		}
	}

	store := &Store{}

	var err error
	store.cursor, err = sqlite.OpenConn(url, 0)
	if err != nil {
		return nil, err
	}

	if create {
		err = setPragma(store.cursor, "application_id", reportApplicationID)
		if err != nil {
			return nil, err
		}

		err = setPragma(store.cursor, "user_version", storeVersion)
		if err != nil {
			return nil, err
		}

		err = store.exec("CREATE VIRTUAL TABLE `elements` " +
			"USING fts5(id UNINDEXED, json, insert_time UNINDEXED, tokenize=\"unicode61 tokenchars '/.'\")")
		if err != nil {
			return nil, err
		}
	} else {
		applicationID, err := pragma(store.cursor, "application_id")
		if err != nil {
			return nil, err
		}
		if applicationID != reportApplicationID {
			msg := "wrong file format (application_id is %d, requires %d)"
			return nil, fmt.Errorf(msg, applicationID, reportApplicationID)
		}

		version, err := pragma(store.cursor, "user_version")
		if err != nil {
			return nil, err
		}
		if version != storeVersion {
			msg := "wrong file format (user_version is %d, requires %d)"
			return nil, fmt.Errorf(msg, version, storeVersion)
		}
	}

	store.types = newColumnSet()
	err = store.setupTypes()
	if err != nil {
		return nil, err
	}

	return store, nil
}

/* ################################
#   API
################################ */

// JSONElement is a single entry in the database.
type JSONElement []byte

// Element is a dynamic entry in the database.
type Element map[string]interface{}

// Insert adds a single element.
func (store *Store) Insert(element JSONElement) (string, error) {
	elementType := gjson.GetBytes(element, discriminator)
	if !elementType.Exists() {
		return "", errors.New("element requires a type")
	}

	nested := map[string]interface{}{}
	err := json.Unmarshal(element, &nested)
	if err != nil {
		return "", err
	}

	flat, err := flatten.Flatten(nested)
	if err != nil {
		return "", errors.Wrap(err, "could not flatten element")
	}

	id := gjson.GetBytes(element, "id").String()
	if id == "" {
		id = elementType.String() + "--" + uuid.New().String()
		nested["id"] = id
		flat["id"] = id

		element, err = json.Marshal(nested)
		if err != nil {
			return "", err
		}
	}

	store.types.addAll(elementType.String(), flat)

	query := "INSERT INTO `elements` (id, json, insert_time) VALUES ($id, $json, $time)" // #nosec
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("could not prepare statement %s", query))
	}
	stmt.SetText("$id", id)
	stmt.SetText("$json", string(element))
	stmt.SetText("$time", time.Now().Format("2006-01-02T15:04:05.000Z"))
	_, err = stmt.Step()
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprint("could not exec statement ", query))
	}

	return id, nil
}

// InsertElement marshals a dynamic element and inserts it.
func (store *Store) InsertElement(element Element) (string, error) {
	b, err := json.Marshal(element)
	if err != nil {
		return "", err
	}
	return store.Insert(b)
}

// InsertStruct converts a Go struct to a map with snake case keys and
// inserts it.
func (store *Store) InsertStruct(element interface{}) (string, error) {
	m := structs.Map(element)
	m = lower(m).(map[string]interface{})
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return store.Insert(b)
}

// Get retrieves a single element.
func (store *Store) Get(id string) (element JSONElement, err error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `elements` WHERE id=?") // #nosec
	if err != nil {
		return nil, err
	}

	stmt.BindText(1, id)

	elements, err := store.rowsToElements(stmt)
	if err != nil {
		return nil, err
	}
	if len(elements) > 0 {
		return elements[0], nil
	}
	return nil, errors.New("element does not exist")
}

// Query executes a sql query.
func (store *Store) Query(query string) (elements []JSONElement, err error) {
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return nil, err
	}

	return store.rowsToElements(stmt)
}

// Select retrieves all elements of a type.
func (store *Store) Select(elementType string) (elements []JSONElement, err error) {
	query := "SELECT json FROM \"elements\""
	if elementType != "" {
		query += fmt.Sprintf(" WHERE json_extract(json, '$.%s') = '%s'", discriminator, elementType) // #nosec
	}

	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return nil, err
	}

	return store.rowsToElements(stmt)
}

// Search runs a full text search over all elements.
func (store *Store) Search(q string) (elements []JSONElement, err error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM elements WHERE elements = $query")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$query", q)
	return store.rowsToElements(stmt)
}

// All returns every element.
func (store *Store) All() (elements []JSONElement, err error) {
	return store.Select("")
}

// Close saves and closes the database.
func (store *Store) Close() error {
	if store.types.changed {
		_ = store.createViews()
	}

	return store.cursor.Close()
}

func (store *Store) createViews() error {
	for typeName, fields := range store.types.fields {
		err := store.exec(fmt.Sprintf("DROP VIEW IF EXISTS '%s'", typeName))
		if err != nil {
			return err
		}
		var columns []string
		for field := range fields {
			columns = append(columns, fmt.Sprintf("json_extract(json, '$.%s') as '%s'", field, field))
		}
		sort.Strings(columns)
		err = store.exec(
			fmt.Sprintf("CREATE VIEW '%s' AS SELECT %s FROM elements WHERE json_extract(json, '$.%s') = '%s'",
				typeName, strings.Join(columns, ", "), discriminator, typeName),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

/* ################################
#   Intern
################################ */

func (store *Store) rowsToElements(stmt *sqlite.Stmt) (elements []JSONElement, err error) {
	elements = []JSONElement{}
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return nil, err
		} else if !hasRow {
			break
		}
		elements = append(elements, JSONElement(stmt.GetText("json")))
	}
	return elements, stmt.Finalize()
}

func isElementTable(name string) bool {
	if strings.HasPrefix(name, "sqlite") || strings.HasPrefix(name, "_") {
		return false
	}
	if name == "elements" {
		return false
	}

	for _, suffix := range []string{"_data", "_idx", "_content", "_docsize", "_config"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

func (store *Store) setupTypes() error {
	stmt, err := store.cursor.Prepare("SELECT name FROM sqlite_master")
	if err != nil {
		return err
	}

	for {
		if hasRow, err := stmt.Step(); err != nil {
			return err
		} else if !hasRow {
			break
		}

		name := stmt.GetText("name")

		if !isElementTable(name) {
			continue
		}

		pragmaStmt, err := store.cursor.Prepare(fmt.Sprintf("PRAGMA table_info (\"%s\")", name))
		if err != nil {
			return err
		}

		for {
			if pragmaHasRow, err := pragmaStmt.Step(); err != nil {
				return err
			} else if !pragmaHasRow {
				break
			}

			columnName := pragmaStmt.GetText("name")
			store.types.add(name, columnName)
		}
		err = pragmaStmt.Finalize()
		if err != nil {
			return err
		}
	}

	return stmt.Finalize()
}

func (store *Store) exec(query string) error {
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return err
	}

	_, err = stmt.Step()
	if err != nil {
		return err
	}

	return stmt.Finalize()
}
