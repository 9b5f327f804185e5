// Package query answers read-only questions about groups and their
// entries. Lookups never touch the record beyond creating a missing file.
package query

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/alps/pkg/output"
	"github.com/arthur-debert/alps/pkg/record"
	"github.com/arthur-debert/alps/pkg/store"
	"github.com/arthur-debert/alps/pkg/types"
)

// GroupSummary counts the entries of one group.
type GroupSummary struct {
	Name     string
	Packages int
	Configs  int
	Scripts  int
}

// Result lists what a query found. Missing is only filled for named
// lookups; its length is the command's exit status.
type Result struct {
	Found   []string
	Missing []string
	Groups  []GroupSummary
}

// Engine runs queries and reports their findings.
type Engine struct {
	store    *store.Store
	reporter output.Reporter
}

// New creates an Engine.
func New(s *store.Store, reporter output.Reporter) *Engine {
	return &Engine{store: s, reporter: reporter}
}

// Groups lists every group with its section counts, or checks each of
// names for existence.
func (q *Engine) Groups(names []string) (*Result, error) {
	groups, err := q.store.ListGroups()
	if err != nil {
		return nil, err
	}
	res := &Result{}

	if len(names) > 0 {
		for _, name := range names {
			if q.store.GroupExists(name) {
				q.reporter.Report(output.Found, "Group (%s) found...", name)
				res.Found = append(res.Found, name)
			} else {
				q.reporter.Report(output.Warning, "Group (%s) not found!", name)
				res.Missing = append(res.Missing, name)
			}
		}
		return res, nil
	}

	if len(groups) == 0 {
		q.reporter.Report(output.Warning, "No groups installed!")
		return res, nil
	}
	for _, g := range groups {
		rec, err := q.store.Load(g)
		if err != nil {
			return nil, err
		}
		sum := GroupSummary{
			Name:     g,
			Packages: rec.Len(record.Packages),
			Configs:  rec.Len(record.Configs),
			Scripts:  rec.Len(record.Scripts),
		}
		q.reporter.Report(output.Found, "%s :: (%d) packages :: (%d) configs :: (%d) scripts",
			g, sum.Packages, sum.Configs, sum.Scripts)
		res.Groups = append(res.Groups, sum)
		res.Found = append(res.Found, g)
	}
	q.reporter.Report(output.Plain, "(%d) groups found...", len(groups))
	return res, nil
}

// Entries lists the entries of one section of group, or looks up names in
// it. Configs are listed and matched by their mirror name.
func (q *Engine) Entries(group string, kind types.Kind, names []string) (*Result, error) {
	label := record.LabelFor(kind)
	entries, err := q.store.ReadSection(label, group)
	if err != nil {
		return nil, err
	}
	display := func(entry string) string {
		if label == record.Configs {
			return record.ParseConfigEntry(entry).MirrorName()
		}
		return entry
	}
	res := &Result{}

	if len(names) == 0 {
		var b strings.Builder
		for _, e := range entries {
			b.WriteString(display(e))
			b.WriteString(", ")
			res.Found = append(res.Found, e)
		}
		q.reporter.Report(output.Plain, "%s(%d) entries found...", b.String(), len(entries))
		return res, nil
	}

	for _, name := range names {
		want := name
		if label == record.Configs {
			want = filepath.Base(name)
		}
		var hits []string
		for _, e := range entries {
			if display(e) == want {
				hits = append(hits, e)
			}
		}
		if len(hits) == 0 {
			q.reporter.Report(output.Warning, "%s/%s/%s not found!", group, label.Name(), name)
			res.Missing = append(res.Missing, name)
			continue
		}
		for _, h := range hits {
			q.reporter.Report(output.Found, "Found %s/%s/%s", group, label.Name(), h)
			res.Found = append(res.Found, h)
		}
	}
	return res, nil
}
