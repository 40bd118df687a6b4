package lyrics

import (
	"fmt"

	"github.com/juho05/harmonia-server/script"
)

// attempt is one exact query tuple against a lyrics provider.
type attempt struct {
	Artist   string
	Title    string
	Album    string
	Duration int
}

func (a attempt) key() string {
	return fmt.Sprintf("%s|%s|%s|%d", a.Artist, a.Title, a.Album, a.Duration)
}

// buildAttempts generates the ordered fallback matrix for a lyrics search.
// A strict pass using script-normalized artist and title without album or
// duration constraints comes first, followed by the cartesian product of
// all script variants with progressively stricter (album, duration)
// constraints. Duplicate tuples are emitted only once.
func buildAttempts(n script.Normalizer, artist, title, album string, durationSeconds int) []attempt {
	artistVariants := script.Variants(n, artist)
	titleVariants := script.Variants(n, title)

	// loosest first: a missing album or duration widens the match
	type albumDuration struct {
		album    string
		duration int
	}
	albumDurations := []albumDuration{
		{"", durationSeconds},
		{"", 0},
	}
	if album != "" {
		albumDurations = append(albumDurations,
			albumDuration{album, durationSeconds},
			albumDuration{album, 0},
		)
	}

	visited := make(map[string]bool)
	attempts := make([]attempt, 0, len(artistVariants)*len(titleVariants)*len(albumDurations))
	add := func(a attempt) {
		key := a.key()
		if visited[key] {
			return
		}
		visited[key] = true
		attempts = append(attempts, a)
	}

	add(attempt{Artist: n.ToSimplified(artist), Title: n.ToSimplified(title)})
	add(attempt{Artist: n.ToTraditional(artist), Title: n.ToTraditional(title)})

	for _, av := range artistVariants {
		for _, tv := range titleVariants {
			for _, ad := range albumDurations {
				add(attempt{Artist: av, Title: tv, Album: ad.album, Duration: ad.duration})
			}
		}
	}
	return attempts
}
