// Package sql executes compiled scripts on a database/sql connection.
//
// Open resolves a dialect name to the registered database/sql driver and
// wraps the connection in a Driver. Drivers are not imported here; programs
// register the ones they need:
//
//	import (
//	    _ "github.com/go-sql-driver/mysql"
//	    _ "github.com/lib/pq"
//	    _ "modernc.org/sqlite"
//	)
//
// Apply runs the statements of a script in order inside one transaction and
// rolls back on the first failure, reporting the failed statement as a
// *StatementError:
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	stats, err := drv.Apply(ctx, cmds, sql.WithLogger(logger))
//
// The statement model itself lives in the schema subpackage.
package sql
