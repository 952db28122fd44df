// Package postgres exports parsed maps into PostgreSQL tables.
// Nodes, ways and relations go into one table each, way geometries
// are written as WKT.
package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/mapconv/osmx/element"
	"github.com/mapconv/osmx/log"
	"github.com/mapconv/osmx/mapping"
)

type SQLError struct {
	query         string
	originalError error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("SQL Error: %s in query %s", e.originalError.Error(), e.query)
}

type DB struct {
	conn   *sql.DB
	Schema string
	Prefix string
}

func Open(connection, schema string) (*DB, error) {
	if schema == "" {
		schema = "public"
	}
	conn, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, errors.Wrap(err, "opening connection")
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "connecting to database")
	}
	return &DB{conn: conn, Schema: schema, Prefix: "osm_"}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) tableName(name string) string {
	return fmt.Sprintf("%s.%s",
		pq.QuoteIdentifier(db.Schema),
		pq.QuoteIdentifier(db.Prefix+name))
}

// Init drops and recreates the element tables.
func (db *DB) Init() error {
	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, db.tableName("nodes")),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, db.tableName("ways")),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, db.tableName("relations")),
		fmt.Sprintf(`CREATE TABLE %s (
			id BIGINT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			tags JSONB NOT NULL DEFAULT '{}')`, db.tableName("nodes")),
		fmt.Sprintf(`CREATE TABLE %s (
			id BIGINT PRIMARY KEY,
			refs BIGINT[] NOT NULL,
			tags JSONB NOT NULL DEFAULT '{}',
			geometry TEXT,
			is_highway BOOLEAN NOT NULL,
			is_building BOOLEAN NOT NULL,
			classes TEXT[] NOT NULL DEFAULT '{}')`, db.tableName("ways")),
		fmt.Sprintf(`CREATE TABLE %s (
			id BIGINT PRIMARY KEY,
			members JSONB NOT NULL DEFAULT '[]',
			tags JSONB NOT NULL DEFAULT '{}')`, db.tableName("relations")),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return &SQLError{stmt, err}
		}
	}
	return tx.Commit()
}

// ImportMap copies all elements of m into the element tables.
// classes selects the way classes column, Default() when nil.
func (db *DB) ImportMap(m *element.Map, classes *mapping.Mapping) error {
	if classes == nil {
		classes = mapping.Default()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertNodes(tx, db, m.Nodes); err != nil {
		return err
	}
	if err := insertWays(tx, db, m.Ways, classes); err != nil {
		return err
	}
	if err := insertRelations(tx, db, m.Relations); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing import")
	}
	log.Printf("[info] imported %d nodes, %d ways, %d relations",
		len(m.Nodes), len(m.Ways), len(m.Relations))
	return nil
}

func insertNodes(tx *sql.Tx, db *DB, nodes []element.Node) error {
	query := pq.CopyInSchema(db.Schema, db.Prefix+"nodes", "id", "lat", "lon", "tags")
	stmt, err := tx.Prepare(query)
	if err != nil {
		return &SQLError{query, err}
	}
	defer stmt.Close()

	for i := range nodes {
		node := &nodes[i]
		tags, err := tagsJSON(node.Tags)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(node.ID, node.Lat, node.Long, tags); err != nil {
			return &SQLError{query, err}
		}
	}
	if _, err := stmt.Exec(); err != nil {
		return &SQLError{query, err}
	}
	return nil
}

func insertWays(tx *sql.Tx, db *DB, ways []element.Way, classes *mapping.Mapping) error {
	query := pq.CopyInSchema(db.Schema, db.Prefix+"ways",
		"id", "refs", "tags", "geometry", "is_highway", "is_building", "classes")
	stmt, err := tx.Prepare(query)
	if err != nil {
		return &SQLError{query, err}
	}
	defer stmt.Close()

	for i := range ways {
		way := &ways[i]
		tags, err := tagsJSON(way.Tags)
		if err != nil {
			return err
		}
		geometry := sql.NullString{}
		if len(way.Points) > 0 {
			g, err := way.Geometry()
			if err != nil {
				return errors.Wrapf(err, "geometry of way %d", way.ID)
			}
			s, err := wkt.Marshal(g)
			if err != nil {
				return errors.Wrapf(err, "encoding way %d", way.ID)
			}
			geometry = sql.NullString{String: s, Valid: true}
		}
		_, err = stmt.Exec(way.ID, pq.Array(way.Refs), tags, geometry,
			way.IsHighway, way.IsBuilding, pq.Array(classes.WayClasses(way.Tags)))
		if err != nil {
			return &SQLError{query, err}
		}
	}
	if _, err := stmt.Exec(); err != nil {
		return &SQLError{query, err}
	}
	return nil
}

func insertRelations(tx *sql.Tx, db *DB, rels []element.Relation) error {
	query := pq.CopyInSchema(db.Schema, db.Prefix+"relations", "id", "members", "tags")
	stmt, err := tx.Prepare(query)
	if err != nil {
		return &SQLError{query, err}
	}
	defer stmt.Close()

	for i := range rels {
		rel := &rels[i]
		tags, err := tagsJSON(rel.Tags)
		if err != nil {
			return err
		}
		members, err := json.Marshal(rel.Members)
		if err != nil {
			return errors.Wrapf(err, "encoding members of relation %d", rel.ID)
		}
		if _, err := stmt.Exec(rel.ID, string(members), tags); err != nil {
			return &SQLError{query, err}
		}
	}
	if _, err := stmt.Exec(); err != nil {
		return &SQLError{query, err}
	}
	return nil
}

func tagsJSON(tags element.Tags) (string, error) {
	if len(tags) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", errors.Wrap(err, "encoding tags")
	}
	return string(b), nil
}
