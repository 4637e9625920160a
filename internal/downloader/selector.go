package downloader

// defaultExt is the container assumed when the caller requested none.
const defaultExt = "mp4"

// selectStream picks one stream through a degrading search: progressive with
// a matching container first, then container match alone, then progressive
// alone, then anything. The first combination with candidates wins; within
// it the resolution policy decides. Returns nil only when the stream list is
// empty for every combination.
func selectStream(streams []Stream, ext string, policy resolutionPolicy) *Stream {
	if ext == "" {
		ext = defaultExt
	}
	combos := []struct {
		needProgressive bool
		needExt         bool
	}{
		{needProgressive: true, needExt: true},
		{needProgressive: false, needExt: true},
		{needProgressive: true, needExt: false},
		{needProgressive: false, needExt: false},
	}
	for _, c := range combos {
		var candidates []*Stream
		for i := range streams {
			s := &streams[i]
			if c.needProgressive && !s.Progressive {
				continue
			}
			if c.needExt && s.Ext != ext {
				continue
			}
			candidates = append(candidates, s)
		}
		if len(candidates) > 0 {
			return pickByResolution(candidates, policy)
		}
	}
	return nil
}

// pickByResolution applies the resolution policy to a non-empty candidate
// set. Ties keep the earliest candidate in provider order.
func pickByResolution(candidates []*Stream, policy resolutionPolicy) *Stream {
	best := candidates[0]
	for _, s := range candidates[1:] {
		switch policy.kind {
		case policyNearest:
			if abs(s.Resolution-policy.target) < abs(best.Resolution-policy.target) {
				best = s
			}
		case policyLowest:
			if s.Resolution < best.Resolution {
				best = s
			}
		default:
			if s.Resolution > best.Resolution {
				best = s
			}
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
