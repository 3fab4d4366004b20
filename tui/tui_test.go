package tui

import (
	"strings"
	"testing"

	"github.com/Gtaray/sanctuary-randomizer/engine"
	"github.com/Gtaray/sanctuary-randomizer/loader"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

func browserFixture(t *testing.T) (*options.Options, []section) {
	t.Helper()
	store, _, err := loader.Load("../data", 1)
	if err != nil {
		t.Fatalf("loading sample data: %v", err)
	}
	opts := options.Default()
	opts.Seed = 17
	opts.Shuffle = types.ShuffleAny

	gen := engine.New(store, opts)
	w, err := gen.Generate(1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := gen.Fill(w); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	gen.ResolveHints(w)

	return opts, buildSections(store, opts, []*engine.World{w})
}

func TestBuildSections(t *testing.T) {
	_, sections := browserFixture(t)
	if len(sections) < 3 {
		t.Fatalf("got %d sections, want settings plus areas plus encounters", len(sections))
	}
	if sections[0].title != "Settings" {
		t.Errorf("first section = %q, want Settings", sections[0].title)
	}
	if !strings.Contains(sections[0].body, "Seed            17") {
		t.Errorf("settings body missing seed:\n%s", sections[0].body)
	}

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.title)
	}
	joined := strings.Join(titles, "|")
	if !strings.Contains(joined, "Encounters (P1)") {
		t.Errorf("encounter section missing: %v", titles)
	}
	if !strings.Contains(joined, "Foothills (P1)") {
		t.Errorf("area sections missing: %v", titles)
	}
}

func TestSectionBodiesExcludeEvents(t *testing.T) {
	_, sections := browserFixture(t)
	for _, s := range sections {
		if strings.HasSuffix(s.title, "(P1)") && !strings.HasPrefix(s.title, "Encounters") &&
			!strings.HasPrefix(s.title, "Hints") {
			if strings.Contains(s.body, "_Rank") || strings.Contains(s.body, "_Victory") {
				t.Errorf("section %s leaked event locations", s.title)
			}
		}
	}
}

func TestEncountersBodyMarksChampions(t *testing.T) {
	opts, sections := browserFixture(t)
	if opts.Shuffle == types.ShuffleOff {
		t.Skip("fixture runs with shuffle enabled")
	}
	for _, s := range sections {
		if s.title == "Encounters (P1)" {
			if !strings.Contains(s.body, "champion") {
				t.Errorf("encounter body missing champion marker:\n%s", s.body)
			}
			return
		}
	}
	t.Error("encounter section not found")
}
