package report

import (
	"strconv"

	"github.com/nao1215/gedcom7import/internal/model"
)

// Delta is one counter measured in two runs.
type Delta struct {
	Name   string `json:"name"`
	Base   int    `json:"base"`
	Target int    `json:"target"`
}

// Change returns Target minus Base.
func (d Delta) Change() int {
	return d.Target - d.Base
}

// Comparison holds the per-kind and per-severity differences between two
// import runs.
type Comparison struct {
	Base   *model.ImportReport `json:"base"`
	Target *model.ImportReport `json:"target"`

	// Entities has one row per kind present in either run, in persistence
	// order.
	Entities []Delta `json:"entities"`

	// Diagnostics has one row per severity present in either run.
	Diagnostics []Delta `json:"diagnostics"`

	// SameDigest reports whether both runs read identical bytes.
	SameDigest bool `json:"same_digest"`
}

// Compare builds the comparison of target against base.
func Compare(base, target *model.ImportReport) *Comparison {
	c := &Comparison{
		Base:       base,
		Target:     target,
		SameDigest: base.Digest != "" && base.Digest == target.Digest,
	}
	for _, k := range model.Kinds {
		d := Delta{Name: k.String(), Base: base.Counts[k.String()], Target: target.Counts[k.String()]}
		if d.Base != 0 || d.Target != 0 {
			c.Entities = append(c.Entities, d)
		}
	}
	for _, s := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		d := Delta{Name: s.String(), Base: base.CountBySeverity(s), Target: target.CountBySeverity(s)}
		if d.Base != 0 || d.Target != 0 {
			c.Diagnostics = append(c.Diagnostics, d)
		}
	}
	return c
}

// Total returns the entity total of both runs.
func (c *Comparison) Total() Delta {
	return Delta{Name: "total", Base: c.Base.Total(), Target: c.Target.Total()}
}

// Changed reports whether any entity or diagnostic count differs.
func (c *Comparison) Changed() bool {
	for _, rows := range [][]Delta{c.Entities, c.Diagnostics} {
		for _, d := range rows {
			if d.Change() != 0 {
				return true
			}
		}
	}
	return false
}

// signed renders a change with an explicit sign.
func signed(n int) string {
	switch {
	case n > 0:
		return "+" + strconv.Itoa(n)
	case n == 0:
		return "0"
	default:
		return strconv.Itoa(n)
	}
}
