package trails

import "github.com/paulmach/orb"

// StitchWays chains way segments (each an ordered list of node IDs) into
// the longest contiguous coordinate sequence, matching endpoints greedily
// and reversing segments as needed. OSM relations list their member ways
// in relation order, but adjoining ways aren't always already oriented
// head-to-tail, so this reconciles them before handing back one
// LineString's worth of points.
func StitchWays(wayRefs []int64, wayNodes map[int64][]int64, nodeCoords map[int64]orb.Point) orb.LineString {
	var segNodeIDs [][]int64
	for _, wref := range wayRefs {
		nids := wayNodes[wref]
		var valid []int64
		for _, nid := range nids {
			if _, ok := nodeCoords[nid]; ok {
				valid = append(valid, nid)
			}
		}
		if len(valid) >= 2 {
			segNodeIDs = append(segNodeIDs, valid)
		}
	}
	if len(segNodeIDs) == 0 {
		return nil
	}

	used := make([]bool, len(segNodeIDs))
	var chains [][]int64

	for startIdx := range segNodeIDs {
		if used[startIdx] {
			continue
		}
		chain := append([]int64(nil), segNodeIDs[startIdx]...)
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			for i, seg := range segNodeIDs {
				if used[i] {
					continue
				}
				segStart, segEnd := seg[0], seg[len(seg)-1]
				chainStart, chainEnd := chain[0], chain[len(chain)-1]

				switch {
				case segStart == chainEnd:
					chain = append(chain, seg[1:]...)
					used[i] = true
					changed = true
				case segEnd == chainStart:
					chain = append(append([]int64(nil), seg[:len(seg)-1]...), chain...)
					used[i] = true
					changed = true
				case segEnd == chainEnd:
					chain = append(chain, reversed(seg[:len(seg)-1])...)
					used[i] = true
					changed = true
				case segStart == chainStart:
					chain = append(reversed(seg[1:]), chain...)
					used[i] = true
					changed = true
				}
			}
		}
		chains = append(chains, chain)
	}

	best := chains[0]
	for _, c := range chains[1:] {
		if len(c) > len(best) {
			best = c
		}
	}

	coords := make(orb.LineString, 0, len(best))
	for _, nid := range best {
		if pt, ok := nodeCoords[nid]; ok {
			coords = append(coords, pt)
		}
	}
	return coords
}

func reversed(ids []int64) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
