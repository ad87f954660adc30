package sequencer

import (
	"fmt"
	"strings"
)

// NumPitches is the number of selectable pitches per step.
const NumPitches = 5

// Scale is a pentatonic scale: semitone offsets from the track's base pitch,
// indexed by a step's pitch selection.
type Scale struct {
	Name    string
	Pitches [NumPitches]int
}

// Scales is the fixed catalog, in cycling order.
var Scales = []Scale{
	{Name: "MAJOR", Pitches: [NumPitches]int{0, 2, 4, 7, 9}},
	{Name: "SUSPENDED", Pitches: [NumPitches]int{0, 2, 5, 7, 10}},
	{Name: "BLUES_MINOR", Pitches: [NumPitches]int{0, 3, 5, 8, 10}},
	{Name: "BLUES_MAJOR", Pitches: [NumPitches]int{0, 2, 5, 7, 9}},
	{Name: "MINOR", Pitches: [NumPitches]int{0, 3, 5, 7, 10}},
}

// ScaleByName looks a scale up case-insensitively.
func ScaleByName(name string) (Scale, error) {
	for _, s := range Scales {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Scale{}, fmt.Errorf("unknown scale %q", name)
}

// Interval returns the offset for a pitch selection.
func (s Scale) Interval(p Step) int {
	return s.Pitches[p]
}

func nextScale(current Scale) Scale {
	for i, s := range Scales {
		if s.Name == current.Name {
			return Scales[(i+1)%len(Scales)]
		}
	}
	return Scales[0]
}
