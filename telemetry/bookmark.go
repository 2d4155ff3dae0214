package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkOvergrowOnset BookmarkType = "overgrow_onset"
	BookmarkLightRally    BookmarkType = "light_rally"
	BookmarkPlantWipeout  BookmarkType = "plant_wipeout"
	BookmarkGardenBloom   BookmarkType = "garden_bloom"
	BookmarkClimax        BookmarkType = "climax"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a session.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	rallyDrop      float64
	bloomMinPlants int

	// State tracking
	coveragePeak float64 // peak coverage since the last rally
}

// NewBookmarkDetector creates a detector with the given history size.
// rallyDrop is the coverage fall from the recent peak that counts as a rally;
// bloomMinPlants is how many flowering plants make a garden bloom.
func NewBookmarkDetector(historySize int, rallyDrop float64, bloomMinPlants int) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		history:        make([]WindowStats, historySize),
		historySize:    historySize,
		rallyDrop:      rallyDrop,
		bloomMinPlants: bloomMinPlants,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.previous(); ok {
		if stats.Overgrow && !prev.Overgrow {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkOvergrowOnset,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Overgrow began at %.0f%% coverage", stats.Coverage*100),
			})
		}

		if stats.Climax && !prev.Climax {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkClimax,
				Tick:        stats.WindowEndTick,
				Description: "Moss reached full coverage",
			})
		}

		if stats.Plants == 0 && prev.Plants > 0 {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkPlantWipeout,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Last of %d plants lost", prev.Plants),
			})
		}

		if bd.bloomMinPlants > 0 && stats.Flowering >= bd.bloomMinPlants && prev.Flowering < bd.bloomMinPlants {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkGardenBloom,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("%d plants flowering", stats.Flowering),
			})
		}
	}

	if b := bd.checkLightRally(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) checkLightRally(stats WindowStats) *Bookmark {
	if stats.Climax {
		return nil
	}
	if stats.Coverage > bd.coveragePeak {
		bd.coveragePeak = stats.Coverage
		return nil
	}

	drop := bd.coveragePeak - stats.Coverage
	if bd.rallyDrop > 0 && drop >= bd.rallyDrop {
		// Reset the peak after triggering
		oldPeak := bd.coveragePeak
		bd.coveragePeak = stats.Coverage

		return &Bookmark{
			Type:        BookmarkLightRally,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Coverage pushed back from %.0f%% to %.0f%%", oldPeak*100, stats.Coverage*100),
		}
	}
	return nil
}

func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}
