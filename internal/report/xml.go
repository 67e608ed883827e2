// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package report

import (
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"github.com/specialistvlad/casegrid/internal/model"
)

// XML streams the report as one <run> document.
type XML struct {
	enc *xml.Encoder
}

// NewXML returns an XML renderer writing to w.
func NewXML(w io.Writer) *XML {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &XML{enc: enc}
}

// Run implements Hooks.
func (x *XML) Run(tag Tag, r RunInfo) error {
	if tag == Head {
		if err := x.enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
			return err
		}
		return x.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "run"}, Attr: []xml.Attr{
			attr("id", r.ID),
			attr("host", r.Host.Name),
			attr("os", r.Host.OS),
			attr("arch", r.Host.Arch),
			attr("cpus", strconv.Itoa(r.Host.CPUs)),
			attr("sandboxed", strconv.FormatBool(r.Sandboxed)),
			attr("max_parallel", strconv.Itoa(r.MaxParallel)),
			attr("start", stamp(r.Start)),
			attr("stop", stamp(r.Stop)),
			attr("passed", strconv.FormatBool(r.Passed())),
		}})
	}
	if err := x.synoptic("groups", r.Groups); err != nil {
		return err
	}
	if err := x.synoptic("cases", r.Cases); err != nil {
		return err
	}
	if err := x.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "run"}}); err != nil {
		return err
	}
	return x.enc.Close()
}

// Group implements Hooks.
func (x *XML) Group(tag Tag, g GroupInfo) error {
	if tag == Head {
		return x.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "group"}, Attr: []xml.Attr{
			attr("id", g.ID),
			attr("rank", strconv.FormatUint(uint64(g.Rank), 10)),
			attr("status", g.Status.String()),
			attr("start", stamp(g.Start)),
			attr("stop", stamp(g.Stop)),
		}})
	}
	if err := x.synoptic("cases", g.Cases); err != nil {
		return err
	}
	return x.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "group"}})
}

type xmlUsage struct {
	UserNS   int64 `xml:"user_ns,attr"`
	SystemNS int64 `xml:"system_ns,attr"`
	MaxRSS   int64 `xml:"maxrss_kb,attr"`
	MinFlt   int64 `xml:"minflt,attr"`
	MajFlt   int64 `xml:"majflt,attr"`
	NVCSw    int64 `xml:"nvcsw,attr"`
	NIVCSw   int64 `xml:"nivcsw,attr"`
}

type xmlCase struct {
	XMLName   xml.Name  `xml:"case"`
	ID        string    `xml:"id,attr"`
	Func      string    `xml:"func,attr,omitempty"`
	Rank      uint      `xml:"rank,attr"`
	Status    string    `xml:"status,attr"`
	Start     string    `xml:"start,attr,omitempty"`
	Stop      string    `xml:"stop,attr,omitempty"`
	ElapsedNS int64     `xml:"elapsed_ns,attr"`
	Usage     *xmlUsage `xml:"usage,omitempty"`
}

// Case implements Hooks.
func (x *XML) Case(c CaseInfo) error {
	v := xmlCase{
		ID:        c.ID,
		Func:      c.Func,
		Rank:      c.Rank,
		Status:    c.Status.String(),
		Start:     stamp(c.Start),
		Stop:      stamp(c.Stop),
		ElapsedNS: int64(elapsed(c.Start, c.Stop)),
	}
	if u := c.Usage; u != nil {
		v.Usage = &xmlUsage{
			UserNS:   int64(u.User),
			SystemNS: int64(u.System),
			MaxRSS:   u.MaxRSS,
			MinFlt:   u.MinorFaults,
			MajFlt:   u.MajorFaults,
			NVCSw:    u.VoluntarySwitch,
			NIVCSw:   u.InvoluntarySwitch,
		}
	}
	return x.enc.Encode(v)
}

func (x *XML) synoptic(name string, s model.Synoptic) error {
	el := xml.StartElement{Name: xml.Name{Local: name}, Attr: []xml.Attr{
		attr("total", strconv.Itoa(s.Total)),
		attr("pass", strconv.Itoa(s.Success)),
		attr("fail", strconv.Itoa(s.Failure)),
		attr("abrt", strconv.Itoa(s.Aborted)),
		attr("skip", strconv.Itoa(s.Skipped)),
		attr("nrun", strconv.Itoa(s.Pending)),
	}}
	if err := x.enc.EncodeToken(el); err != nil {
		return err
	}
	return x.enc.EncodeToken(el.End())
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
