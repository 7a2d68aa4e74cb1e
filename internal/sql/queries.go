package sql

import "embed"

// Migrations holds the schema files applied by db.ApplyMigrations.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/insert_batch.sql
var InsertBatch string

//go:embed queries/finish_batch.sql
var FinishBatch string

//go:embed queries/insert_record.sql
var InsertRecord string

//go:embed queries/insert_failure.sql
var InsertFailure string

//go:embed queries/batch_stats.sql
var BatchStats string
