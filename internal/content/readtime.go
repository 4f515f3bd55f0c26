package content

import (
	"math"
	"strings"
)

// DefaultWordsPerMinute is the reading speed used for read time estimates.
const DefaultWordsPerMinute = 220

// ReadMinutes estimates reading time in whole minutes, never less than one.
func ReadMinutes(text string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	return max(1, int(math.Round(float64(words)/float64(wordsPerMinute))))
}
