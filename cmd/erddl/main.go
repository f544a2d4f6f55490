// Command erddl compiles entity-relationship diagram snapshots into DDL
// scripts.
//
//	erddl gen employee.json -o employee.sql
//	erddl gen *.yaml --dialect postgres --go-out model/schema.go --go-package model
//	erddl validate employee.json
//	erddl apply employee.json --driver sqlite --dsn file:hr.db
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
