package ghost

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/openkart/kartcore/pkg/core"
)

// Encode serializes a trace for persistence: sample positions become
// an XYZM LineString (M carries the elapsed seconds) in WKB, and the
// headings ride alongside, aligned by sample index.
func Encode(trace core.GhostTrace) (wkb []byte, headings []float64, err error) {
	if len(trace) < 2 {
		// a LineString needs two points; a shorter trace persists as
		// empty and replays nothing
		return nil, nil, nil
	}

	coords := make([]float64, 0, len(trace)*4)
	headings = make([]float64, 0, len(trace))
	for _, s := range trace {
		coords = append(coords, s.Pose.Position.X, s.Pose.Position.Y, s.Pose.Position.Z, s.Elapsed)
		headings = append(headings, s.Pose.Heading)
	}

	seq := geom.NewSequence(coords, geom.DimXYZM)
	ls := geom.NewLineString(seq)
	return ls.AsBinary(), headings, nil
}

// Decode rebuilds a trace from its persisted form. Any mismatch is a
// malformed record; callers treat that as "no record".
func Decode(wkb []byte, headings []float64) (core.GhostTrace, error) {
	if len(wkb) == 0 {
		return nil, nil
	}

	g, err := geom.UnmarshalWKB(wkb)
	if err != nil {
		return nil, fmt.Errorf("error parsing ghost trace WKB: %w", err)
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("ghost trace is not a linestring: %s", g.Type())
	}

	seq := ls.Coordinates()
	if seq.CoordinatesType() != geom.DimXYZM {
		return nil, fmt.Errorf("ghost trace has wrong dimensionality: %s", seq.CoordinatesType())
	}
	if seq.Length() != len(headings) {
		return nil, fmt.Errorf("ghost trace has %d points but %d headings", seq.Length(), len(headings))
	}

	trace := make(core.GhostTrace, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		c := seq.Get(i)
		trace = trace.Append(c.M, core.Pose{
			Position: core.Vec3{X: c.X, Y: c.Y, Z: c.Z},
			Heading:  headings[i],
		})
	}
	return trace, nil
}
