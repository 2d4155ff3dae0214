package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, want BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == want {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_OvergrowOnset(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.15, 5)

	if got := bd.Check(WindowStats{WindowEndTick: 600, Coverage: 0.4}); hasBookmark(got, BookmarkOvergrowOnset) {
		t.Error("no onset before overgrow")
	}
	got := bd.Check(WindowStats{WindowEndTick: 1200, Coverage: 0.65, Overgrow: true})
	if !hasBookmark(got, BookmarkOvergrowOnset) {
		t.Error("expected overgrow_onset bookmark")
	}
	got = bd.Check(WindowStats{WindowEndTick: 1800, Coverage: 0.7, Overgrow: true})
	if hasBookmark(got, BookmarkOvergrowOnset) {
		t.Error("onset should only fire on the rising edge")
	}
}

func TestBookmarkDetector_LightRally(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.15, 5)

	for i, cov := range []float64{0.2, 0.35, 0.5} {
		if got := bd.Check(WindowStats{WindowEndTick: int32(i * 600), Coverage: cov}); hasBookmark(got, BookmarkLightRally) {
			t.Fatalf("window %d: unexpected rally while coverage rises", i)
		}
	}

	got := bd.Check(WindowStats{WindowEndTick: 1800, Coverage: 0.3})
	if !hasBookmark(got, BookmarkLightRally) {
		t.Error("expected light_rally bookmark after a 20 point drop")
	}

	// Peak was reset to 0.3, so a small dip does not trigger again
	got = bd.Check(WindowStats{WindowEndTick: 2400, Coverage: 0.25})
	if hasBookmark(got, BookmarkLightRally) {
		t.Error("rally fired twice for one drop")
	}
}

func TestBookmarkDetector_PlantWipeoutAndBloom(t *testing.T) {
	bd := NewBookmarkDetector(10, 0.15, 3)

	bd.Check(WindowStats{WindowEndTick: 600, Plants: 8, Flowering: 1})
	got := bd.Check(WindowStats{WindowEndTick: 1200, Plants: 8, Flowering: 3})
	if !hasBookmark(got, BookmarkGardenBloom) {
		t.Error("expected garden_bloom bookmark")
	}

	got = bd.Check(WindowStats{WindowEndTick: 1800, Plants: 0})
	if !hasBookmark(got, BookmarkPlantWipeout) {
		t.Error("expected plant_wipeout bookmark")
	}
	got = bd.Check(WindowStats{WindowEndTick: 2400, Plants: 0})
	if hasBookmark(got, BookmarkPlantWipeout) {
		t.Error("wipeout should only fire once per loss")
	}
}

func TestBookmarkDetector_Climax(t *testing.T) {
	bd := NewBookmarkDetector(2, 0.15, 5)

	bd.Check(WindowStats{WindowEndTick: 600, Coverage: 0.8, Overgrow: true})
	got := bd.Check(WindowStats{WindowEndTick: 1200, Coverage: 1, Overgrow: true, Climax: true})
	if !hasBookmark(got, BookmarkClimax) {
		t.Error("expected climax bookmark")
	}
	// The history buffer wraps at size 2
	for i := 0; i < 4; i++ {
		got = bd.Check(WindowStats{WindowEndTick: int32(1800 + i*600), Coverage: 1, Overgrow: true, Climax: true})
		if hasBookmark(got, BookmarkClimax) {
			t.Fatalf("window %d: climax bookmark repeated", i)
		}
	}
}
