// Package sqlite implements the SQLite backend for the Pulse observation
// store. Every mutation updates the observation table, the latest index,
// and the count table inside a single transaction.
package sqlite

// Schema DDL for the three coupled tables. All keys are prefixed by owner,
// so different owners never touch the same rows.
const (
	createObservations = `CREATE TABLE IF NOT EXISTS observations (
    owner TEXT NOT NULL,
    ts INTEGER NOT NULL,
    kind TEXT NOT NULL,
    value INTEGER NOT NULL,
    annotation TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (owner, ts, kind)
);`

	createLatestIndex = `CREATE TABLE IF NOT EXISTS latest_index (
    owner TEXT NOT NULL,
    kind TEXT NOT NULL,
    ts INTEGER NOT NULL,
    PRIMARY KEY (owner, kind)
);`

	createCounts = `CREATE TABLE IF NOT EXISTS observation_counts (
    owner TEXT NOT NULL,
    kind TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (owner, kind)
);`
)

// schemaDDL lists the statements executed on Attach, in order.
var schemaDDL = []string{
	createObservations,
	createLatestIndex,
	createCounts,
}
