// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "csv"      (catalogetl/internal/storage/csvfile)
//   - "sqlite"   (catalogetl/internal/storage/sqlite)
//   - "postgres" (catalogetl/internal/storage/postgres)
//   - "mssql"    (catalogetl/internal/storage/mssql)
//   - "mysql"    (catalogetl/internal/storage/mysql)
//
// Typical usage:
//
//	import _ "catalogetl/internal/storage/all"
//
//	st, err := storage.Write(ctx, storage.Config{Kind: "sqlite", DSN: "catalog.db", Table: "titles"},
//	    table, storage.WriteOptions{AutoCreate: true})
//
// If you want a binary that supports only a subset of backends, import the
// required backend packages directly instead of this package.
package all

import (
	_ "catalogetl/internal/storage/csvfile"
	_ "catalogetl/internal/storage/mssql"
	_ "catalogetl/internal/storage/mysql"
	_ "catalogetl/internal/storage/postgres"
	_ "catalogetl/internal/storage/sqlite"
)
