package theory

// BuildPattern expands chord tones into a three-octave arch: every tone one
// octave down, in place and one octave up, deduplicated and sorted
// ascending, followed by the same run descending without repeating the peak.
// For n unique pitches the pattern has 2n-1 notes.
func BuildPattern(chordTones []Pitch) []Pitch {
	candidates := make([]Pitch, 0, len(chordTones)*3)
	for _, p := range chordTones {
		candidates = append(candidates,
			p.Transpose(-semitonesPerOctave),
			p,
			p.Transpose(semitonesPerOctave),
		)
	}

	ascending := uniqueSorted(candidates)
	if len(ascending) == 0 {
		return nil
	}

	pattern := make([]Pitch, 0, 2*len(ascending)-1)
	pattern = append(pattern, ascending...)
	for i := len(ascending) - 2; i >= 0; i-- {
		pattern = append(pattern, ascending[i])
	}
	return pattern
}
