// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the stores query.

Queries are assembled with fmt.Sprintf from these definitions so a renamed
column is a compile-time change in one place. Column names follow the
migration files in data/migrations: lowercase without separators.
*/
package schema
