package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/table"

	"github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/wire"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Connections       map[string]*ConnectionStats
	Rejections        map[wire.Status]int
	Retries           int
	Errors            int
	BytesOut          int
	BytesIn           int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Gateway    string
	Connects   int
	Rejections int
	Retries    int
}

func newStats() *Stats {
	return &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Connections:       make(map[string]*ConnectionStats),
		Rejections:        make(map[wire.Status]int),
	}
}

// add folds a single event into the statistics.
func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.Gateway != "" && conn.Gateway == "" {
		conn.Gateway = event.Gateway
	}

	switch {
	case event.Frame != nil:
		s.EventsByDirection[event.Direction]++
		if event.Direction == log.DirectionOut {
			s.BytesOut += event.Frame.Size
		} else {
			s.BytesIn += event.Frame.Size
		}
	case event.StateChange != nil:
		if event.StateChange.NewState == "CONNECTED" && event.Layer == log.LayerTransport {
			conn.Connects++
		}
	case event.ErrorResponse != nil:
		s.Rejections[event.ErrorResponse.Status]++
		conn.Rejections++
	case event.Retry != nil:
		s.Retries++
		conn.Retries++
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := newStats()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Gateway Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	counts := newTable(w, table.Row{"Group", "Value", "Events"})
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerConnection} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			counts.AppendRow(table.Row{"layer", layer.String(), count})
		}
	}
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryState, log.CategoryErrorResponse, log.CategoryRetry, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			counts.AppendRow(table.Row{"category", cat.String(), count})
		}
	}
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			counts.AppendRow(table.Row{"direction", dir.String(), count})
		}
	}
	counts.Render()
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Bytes Out: %d\n", stats.BytesOut)
	fmt.Fprintf(w, "Bytes In:  %d\n", stats.BytesIn)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	if len(stats.Connections) > 0 {
		type connInfo struct {
			id    string
			stats *ConnectionStats
		}
		conns := make([]connInfo, 0, len(stats.Connections))
		for id, cs := range stats.Connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.FirstSeen.Before(conns[j].stats.FirstSeen)
		})

		ct := newTable(w, table.Row{"Connection", "Gateway", "Events", "Connects", "Retries", "Rejections", "Duration"})
		for _, c := range conns {
			ct.AppendRow(table.Row{
				shortenConnID(c.id),
				c.stats.Gateway,
				c.stats.Events,
				c.stats.Connects,
				c.stats.Retries,
				c.stats.Rejections,
				c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond),
			})
		}
		ct.Render()
	}

	if len(stats.Rejections) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rejections by Status:")
		statuses := make([]wire.Status, 0, len(stats.Rejections))
		for s := range stats.Rejections {
			statuses = append(statuses, s)
		}
		sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

		rt := newTable(w, table.Row{"Status", "Code", "Count"})
		for _, s := range statuses {
			rt.AppendRow(table.Row{s.String(), uint8(s), stats.Rejections[s]})
		}
		rt.Render()
	}

	if stats.Retries > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Retries: %d\n", stats.Retries)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
