// Package dramtrace persists emitted Schedule Memory slots to a durable
// store so a completed batch's command trace survives process exit,
// grounded on the teacher's tracing.SQLiteTraceWriter.
package dramtrace

import (
	"database/sql"
	"fmt"
	"os"

	// Register the sqlite3 driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sahil-g0/dramsched/internal/schedmem"
)

// Writer accepts one command slot at a time and a terminal Flush call.
// The coordinator depends on this interface rather than *SQLiteWriter
// directly so that tests can substitute a mock.
type Writer interface {
	WriteCommand(batchID string, slot schedmem.Slot)
	Flush()
}

// SQLiteWriter buffers emitted command slots and periodically writes them
// to a SQLite database, grounded on tracing/sqlite.go's buffered-statement
// pattern.
type SQLiteWriter struct {
	*sql.DB

	statement *sql.Stmt

	dbName    string
	batchSize int
	buffered  []row
}

type row struct {
	batchID   string
	cycle     int
	kind      string
	bankGroup int
	bank      int
	rowIdx    int
	column    int
	requestID int
}

// NewSQLiteWriter creates a SQLiteWriter backed by the database file
// path + ".sqlite3", which Init opens. With an empty path, Init names the
// database after a fresh xid, the same fallback tracing/sqlite.go uses.
func NewSQLiteWriter(path string) *SQLiteWriter {
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 1000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// Init opens the database connection and creates the trace table.
func (w *SQLiteWriter) Init() {
	if w.dbName == "" {
		w.dbName = "dramsched_trace_" + xid.New().String()
	}

	filename := w.dbName + ".sqlite3"

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}
	w.DB = db

	w.mustExecute(`
		create table if not exists commands (
			batch_id   varchar(32) not null,
			cycle      integer     not null,
			kind       varchar(16) not null,
			bank_group integer     not null,
			bank       integer     not null,
			row        integer     not null,
			column_idx integer     not null,
			request_id integer     not null
		);
	`)
	w.mustExecute(`create index if not exists commands_batch_id_index on commands (batch_id);`)

	stmt, err := w.Prepare(
		`insert into commands values (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		panic(err)
	}
	w.statement = stmt
}

// WriteCommand buffers one emitted slot, flushing once batchSize rows have
// accumulated.
func (w *SQLiteWriter) WriteCommand(batchID string, slot schedmem.Slot) {
	w.buffered = append(w.buffered, row{
		batchID:   batchID,
		cycle:     slot.Cycle,
		kind:      slot.Cmd.String(),
		bankGroup: slot.BankGroup,
		bank:      slot.Bank,
		rowIdx:    slot.Row,
		column:    slot.Column,
		requestID: slot.RequestID,
	})

	if len(w.buffered) >= w.batchSize {
		w.Flush()
	}
}

// Flush writes all buffered rows to the database inside one transaction.
func (w *SQLiteWriter) Flush() {
	if len(w.buffered) == 0 {
		return
	}

	w.mustExecute("begin transaction")
	for _, r := range w.buffered {
		_, err := w.statement.Exec(
			r.batchID, r.cycle, r.kind, r.bankGroup, r.bank, r.rowIdx, r.column, r.requestID,
		)
		if err != nil {
			panic(err)
		}
	}
	w.mustExecute("commit transaction")

	w.buffered = nil
}

func (w *SQLiteWriter) mustExecute(query string) {
	if _, err := w.Exec(query); err != nil {
		fmt.Fprintf(os.Stderr, "dramtrace: failed to execute %q: %v\n", query, err)
		panic(err)
	}
}
