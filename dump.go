package transmem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/awalterschulze/gographviz"
)

// Debug sinks: fire-and-forget dumps of the whole graph or of a single
// resolved path. Format is not normative — these exist so an operator
// or test can eyeball the memory's state — and failures here never
// propagate into query/write results. Each dump runs under m.mu, so the
// snapshot it produces is internally consistent; none of them may call
// back into m.

type jsonFrame struct {
	ID FrameID `json:"id"`
}

type jsonStamped struct {
	At    time.Time  `json:"at"`
	Rot   Quaternion `json:"rot"`
	Trans Vec3       `json:"trans"`
}

type jsonEdge struct {
	Parent  FrameID       `json:"parent"`
	Child   FrameID       `json:"child"`
	Weight  float64       `json:"weight"`
	History []jsonStamped `json:"history"`
}

type jsonDump struct {
	Frames []jsonFrame `json:"frames"`
	Edges  []jsonEdge  `json:"edges"`
}

// DumpJSON writes a structured snapshot of every frame and edge currently
// held. Each edge's "history" lists only its oldest and newest retained
// samples (a single entry when the edge holds one sample); intermediate
// samples are not written. Analogous to the original C++ transmem's
// writeJSON.
func (m *Memory) DumpJSON(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dumpJSONLocked(w)
}

// dumpJSONLocked assumes m.mu is already held; it never takes the lock
// itself, so it is safe to call from connectLocked.
func (m *Memory) dumpJSONLocked(w io.Writer) error {
	dump := jsonDump{}
	for _, fh := range m.g.Frames() {
		dump.Frames = append(dump.Frames, jsonFrame{ID: m.g.FrameID(fh)})
	}
	for _, eh := range m.g.Edges() {
		parent, child := m.g.Endpoints(eh)
		buf := m.g.Buffer(eh)
		je := jsonEdge{
			Parent: m.g.FrameID(parent),
			Child:  m.g.FrameID(child),
			Weight: buf.Weight(),
		}
		if s, ok := buf.Oldest(false); ok {
			je.History = append(je.History, jsonStamped{At: s.At, Rot: s.Xfrm.Rot, Trans: s.Xfrm.Trans})
		}
		if s, ok := buf.Newest(false); ok && buf.Len() > 1 {
			je.History = append(je.History, jsonStamped{At: s.At, Rot: s.Xfrm.Rot, Trans: s.Xfrm.Trans})
		}
		dump.Edges = append(dump.Edges, je)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// DumpDOT writes a Graphviz DOT rendering of the frame graph, built with
// gographviz. This replaces the original C++ transmem's GraphML dump
// with a format that graphviz (and most Go tooling) can render directly.
func (m *Memory) DumpDOT(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dumpDOTLocked(w)
}

// dumpDOTLocked assumes m.mu is already held; it never takes the lock
// itself, so it is safe to call from connectLocked.
func (m *Memory) dumpDOTLocked(w io.Writer) error {
	g := gographviz.NewGraph()
	if err := g.SetName("transmem"); err != nil {
		return err
	}
	if err := g.SetDir(false); err != nil {
		return err
	}

	for _, fh := range m.g.Frames() {
		id := string(m.g.FrameID(fh))
		if err := g.AddNode("transmem", quoteDOT(id), nil); err != nil {
			return err
		}
	}
	for _, eh := range m.g.Edges() {
		parent, child := m.g.Endpoints(eh)
		buf := m.g.Buffer(eh)
		attrs := map[string]string{
			"label": quoteDOT(fmt.Sprintf("w=%.1f n=%d", buf.Weight(), buf.Len())),
		}
		if err := g.AddEdge(quoteDOT(string(m.g.FrameID(parent))), quoteDOT(string(m.g.FrameID(child))), false, attrs); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, g.String())
	return err
}

// DumpPathDOT resolves the path between src and dst exactly as
// TransformAt would and renders only the edges on that path, instead of
// the whole graph. Useful for inspecting which link a query actually
// traversed without the rest of the graph's noise.
func (m *Memory) DumpPathDOT(w io.Writer, src, dst FrameID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if src == dst {
		return ErrInvalidQuery
	}
	p, err := m.resolvePath(src, dst)
	if err != nil {
		return err
	}

	g := gographviz.NewGraph()
	if err := g.SetName("transmem_path"); err != nil {
		return err
	}
	if err := g.SetDir(false); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, eh := range p.Edges {
		parent, child := m.g.Endpoints(eh)
		buf := m.g.Buffer(eh)
		for _, id := range [2]string{string(m.g.FrameID(parent)), string(m.g.FrameID(child))} {
			if seen[id] {
				continue
			}
			seen[id] = true
			if err := g.AddNode("transmem_path", quoteDOT(id), nil); err != nil {
				return err
			}
		}
		attrs := map[string]string{
			"label": quoteDOT(fmt.Sprintf("w=%.1f n=%d", buf.Weight(), buf.Len())),
		}
		if err := g.AddEdge(quoteDOT(string(m.g.FrameID(parent))), quoteDOT(string(m.g.FrameID(child))), false, attrs); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, g.String())
	return err
}

// Snapshot is a pre-rendered, read-only copy of a dump taken at the
// moment it was built. It carries no reference to the Memory it came
// from, so a WithDumpOnWrite callback can do whatever it likes with it
// (log it, write it to disk, push it onto a channel) without risking a
// call back into the Memory that produced it.
type Snapshot struct {
	JSON []byte
	DOT  string
}

// snapshotLocked assumes m.mu is already held and builds a Snapshot
// from the current state without taking the lock itself.
func (m *Memory) snapshotLocked() Snapshot {
	var jsonBuf, dotBuf bytes.Buffer
	// Both builders only read through m.g; a failure here would mean a
	// jsonDump/DOT encoding bug, not a reason to fail the write that
	// triggered this dump, so the snapshot is best-effort.
	_ = m.dumpJSONLocked(&jsonBuf)
	_ = m.dumpDOTLocked(&dotBuf)
	return Snapshot{JSON: jsonBuf.Bytes(), DOT: dotBuf.String()}
}

func quoteDOT(s string) string { return fmt.Sprintf("%q", s) }
