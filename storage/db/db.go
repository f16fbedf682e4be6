// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives uploads of scaling samples in a SQL database.
//
// An upload is the set of samples read from one invocation of
// scalesave. Only raw samples are stored; aggregated points and
// derived metrics are always recomputed from them.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/scalestat/scalestat/scaling"
)

// ErrNoUpload is returned when an upload ID does not name an upload
// in the database.
var ErrNoUpload = errors.New("upload not found")

// DB is a high-level interface to a database of sample uploads.
// It's safe for concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertSample *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connection pool.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Created BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Samples (
	UploadID BIGINT UNSIGNED,
	SampleID BIGINT UNSIGNED,
	Config VARCHAR(255) NOT NULL,
	Procs BIGINT NOT NULL,
	Elems BIGINT NOT NULL,
	WallTime DOUBLE NOT NULL,
	UserTime DOUBLE NOT NULL,
	SysTime DOUBLE NOT NULL,
	SourceFile VARCHAR(1024) NOT NULL,
	SourceLine BIGINT NOT NULL,
	PRIMARY KEY (UploadID, SampleID),
{{if not .sqlite3}}
	Index (Config(100), Elems, Procs),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS SamplesConfigKey ON Samples(Config, Elems, Procs);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Created) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertSample, err = db.sql.Prepare(`INSERT INTO Samples(UploadID, SampleID, Config, Procs, Elems, WallTime, UserTime, SysTime, SourceFile, SourceLine)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// An Upload is a collection of samples that share an upload ID.
type Upload struct {
	// ID is the printable form of the upload's primary key.
	ID string

	// id is the numeric value used as the primary key.
	id int64
	// sampleid is the index of the next sample to insert.
	sampleid int64
	// db is the underlying database that this upload is going to.
	db *DB
}

// NewUpload returns an upload for storing new samples.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	res, err := db.insertUpload.ExecContext(ctx, now().Unix())
	if err != nil {
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Upload{
		ID: strconv.FormatInt(i, 10),
		id: i,
		db: db,
	}, nil
}

// InsertSamples appends samples to the upload in a single
// transaction. Either every sample is stored or none is.
func (u *Upload) InsertSamples(ctx context.Context, samples []scaling.Sample) (err error) {
	tx, err := u.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	stmt := tx.StmtContext(ctx, u.db.insertSample)
	next := u.sampleid
	for i := range samples {
		s := &samples[i]
		if _, err = stmt.ExecContext(ctx, u.id, next, s.Config, s.Procs, s.Elems, s.Wall, s.User, s.Sys, s.Source.File, s.Source.Line); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
		next++
	}
	u.sampleid = next
	return nil
}

func parseUploadID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid upload ID %q", id)
	}
	return n, nil
}

// Samples returns the samples of the upload with the given ID in the
// order they were inserted. It returns ErrNoUpload if there is no
// such upload.
func (db *DB) Samples(ctx context.Context, uploadID string) ([]scaling.Sample, error) {
	id, err := parseUploadID(uploadID)
	if err != nil {
		return nil, err
	}
	var n int
	if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Uploads WHERE UploadID = ?", id).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoUpload
	}
	rows, err := db.sql.QueryContext(ctx, `SELECT Config, Procs, Elems, WallTime, UserTime, SysTime, SourceFile, SourceLine
FROM Samples WHERE UploadID = ? ORDER BY SampleID`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []scaling.Sample
	for rows.Next() {
		var s scaling.Sample
		if err := rows.Scan(&s.Config, &s.Procs, &s.Elems, &s.Wall, &s.User, &s.Sys, &s.Source.File, &s.Source.Line); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// UploadInfo summarizes one upload.
type UploadInfo struct {
	ID      string
	Created time.Time
	// Count is the number of samples in the upload.
	Count int
	// Configs lists the distinct configuration labels of the
	// upload in ascending order. The empty label is listed as
	// scaling.DefaultConfig.
	Configs []string
}

// ListUploads returns the most recent uploads, newest first. If limit
// is positive, at most limit uploads are returned.
func (db *DB) ListUploads(ctx context.Context, limit int) ([]UploadInfo, error) {
	query := `SELECT u.UploadID, u.Created, COUNT(s.SampleID)
FROM Uploads u LEFT JOIN Samples s ON s.UploadID = u.UploadID
GROUP BY u.UploadID, u.Created
ORDER BY u.UploadID DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var infos []UploadInfo
	var ids []int64
	for rows.Next() {
		var (
			id      int64
			created int64
			info    UploadInfo
		)
		if err := rows.Scan(&id, &created, &info.Count); err != nil {
			rows.Close()
			return nil, err
		}
		info.ID = strconv.FormatInt(id, 10)
		info.Created = time.Unix(created, 0).UTC()
		infos = append(infos, info)
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, id := range ids {
		configs, err := db.configs(ctx, id)
		if err != nil {
			return nil, err
		}
		infos[i].Configs = configs
	}
	return infos, nil
}

func (db *DB) configs(ctx context.Context, id int64) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT DISTINCT Config FROM Samples WHERE UploadID = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seen := make(map[string]bool)
	var configs []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		if c == "" {
			c = scaling.DefaultConfig
		}
		if !seen[c] {
			seen[c] = true
			configs = append(configs, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(configs)
	return configs, nil
}

// DeleteUpload deletes the upload with the given ID and all of its
// samples. It returns ErrNoUpload if there is no such upload.
func (db *DB) DeleteUpload(ctx context.Context, uploadID string) (err error) {
	id, err := parseUploadID(uploadID)
	if err != nil {
		return err
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM Samples WHERE UploadID = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM Uploads WHERE UploadID = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoUpload
	}
	return nil
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertUpload, db.insertSample} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
