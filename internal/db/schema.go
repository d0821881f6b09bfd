package db

import _ "embed"

// Schema is the DDL applied by the migrate command and by integration tests.
//
//go:embed schema/schema.sql
var Schema string
