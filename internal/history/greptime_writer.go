package history

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter writes observation rows to GreptimeDB via the ingester
// client, one row per player per run. The gRPC ingestion path auto-creates
// the table on first write.
type GreptimeWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeWriter creates the writer. The endpoint is the host or
// host:port of the GreptimeDB gRPC listener.
func NewGreptimeWriter(endpoint, database, tableName string) (*GreptimeWriter, error) {
	if tableName == "" {
		tableName = Row{}.TableName()
	}

	cfg := greptime.NewConfig(endpoint).WithDatabase(database)
	if host, port, err := net.SplitHostPort(endpoint); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid greptime port %q: %w", port, err)
		}
		cfg = greptime.NewConfig(host).WithDatabase(database).WithPort(p)
	}

	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeWriter{client: client, table: tableName}, nil
}

// Write inserts a single observation row.
func (w *GreptimeWriter) Write(row Row) error {
	return w.WriteBatch([]Row{row})
}

// WriteBatch inserts multiple observation rows.
func (w *GreptimeWriter) WriteBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("player", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("status", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("match_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("changed", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Player, r.Status, r.MatchID, r.Changed, r.Timestamp); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeWriter] Write failed: %v", err)
		return err
	}

	log.Printf("[GreptimeWriter] wrote %d rows", len(rows))
	return nil
}
