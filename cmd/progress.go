package cmd

import (
	"fmt"
	"io"
	"time"
)

// progressTicks is how many intermediate lines a table with a known size prints.
const progressTicks = 10

type tableProgress struct {
	total   int
	done    int
	printed int
	started time.Time
}

// cliProgress prints backup progress per table to out.
type cliProgress struct {
	out    io.Writer
	action string
	tables map[string]*tableProgress
	now    func() time.Time
}

func newCLIProgress(out io.Writer, action string) *cliProgress {
	return &cliProgress{
		out:    out,
		action: action,
		tables: map[string]*tableProgress{},
		now:    time.Now,
	}
}

func (p *cliProgress) StartTable(table string, total int) {
	p.tables[table] = &tableProgress{total: max(total, 0), started: p.now()}
	fmt.Fprintf(p.out, "%s %s: %d rows\n", p.action, table, max(total, 0))
}

func (p *cliProgress) Increment(table string, delta int) {
	tp, ok := p.tables[table]
	if !ok || delta <= 0 {
		return
	}
	tp.done += delta
	if tp.total == 0 {
		return
	}
	step := max(tp.total/progressTicks, 1)
	if tp.done-tp.printed >= step || tp.done == tp.total {
		fmt.Fprintf(p.out, "  %s %3d%% (%d/%d)\n", table, tp.done*100/tp.total, tp.done, tp.total)
		tp.printed = tp.done
	}
}

func (p *cliProgress) FinishTable(table string) {
	tp, ok := p.tables[table]
	if !ok {
		return
	}
	delete(p.tables, table)
	elapsed := p.now().Sub(tp.started).Round(time.Millisecond)
	fmt.Fprintf(p.out, "%s %s: done, %d rows in %s\n", p.action, table, tp.done, elapsed)
}
