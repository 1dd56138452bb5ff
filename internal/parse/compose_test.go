package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func entry(folder, file string, subpath ...string) RawEntry {
	ext := ""
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '.' {
			ext = file[i:]
			break
		}
	}
	return RawEntry{
		FolderName: folder,
		FileName:   file,
		Subpath:    subpath,
		Ext:        ext,
		SourcePath: "/src/" + folder + "/" + file,
	}
}

func TestComposeFolderSharedTitle(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Nekomoe kissaten] Yofukashi no Uta [01-13] [1080p]"
	entries := []RawEntry{
		entry(folder, "[Nekomoe kissaten] Yofukashi no Uta [01] [1080p].mkv"),
		entry(folder, "[Nekomoe kissaten] Yofukashi no Uta [02] [1080p].mkv"),
		entry(folder, "[Nekomoe kissaten] Yofukashi no Uta - NCOP1.mkv"),
	}

	out := e.ComposeFolder(folder, entries)
	for _, c := range out {
		if got, want := c.Meta.Title, "Yofukashi no Uta"; got != want {
			t.Errorf("ComposeFolder title for %q = %q, want %q", c.Entry.FileName, got, want)
		}
	}
}

func TestComposeEpisodes(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	tests := []struct {
		name    string
		folder  string
		file    string
		season  int
		episode int
	}{
		{"default season", "[Group] Show", "[Group] Show [05] [1080p].mkv", 1, 5},
		{"bracket 23", "[Group] Show", "[Group] Show [23].mkv", 1, 23},
		{"filename season wins", "Show Season 3", "Show S02E23.mkv", 2, 23},
		{"folder season", "Show Season 3", "Show [05].mkv", 3, 5},
		{"japanese episode", "Show", "Show 第08話.mkv", 1, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := e.ComposeFolder(tc.folder, []RawEntry{entry(tc.folder, tc.file)})
			meta := out[0].Meta
			if meta.IsSpecial {
				t.Fatalf("ComposeFolder(%q) classified special", tc.file)
			}
			if !meta.HasEpisode {
				t.Fatalf("ComposeFolder(%q) found no episode", tc.file)
			}
			if meta.Season != tc.season || meta.Episode != tc.episode {
				t.Errorf("ComposeFolder(%q) = S%02dE%02d, want S%02dE%02d",
					tc.file, meta.Season, meta.Episode, tc.season, tc.episode)
			}
		})
	}
}

func TestComposeSpecialContent(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Group] Series"
	tests := []struct {
		file string
		name string
	}{
		{"[Group] Series - NCED1.mkv", "NCED1"},
		{"[Group] Series - PV&CM.mkv", "PV&CM"},
		{"[Group] Series - MENU.mkv", "MENU"},
	}
	for _, tc := range tests {
		out := e.ComposeFolder(folder, []RawEntry{entry(folder, tc.file)})
		meta := out[0].Meta
		if !meta.IsSpecial {
			t.Errorf("ComposeFolder(%q) isSpecial = false, want true", tc.file)
			continue
		}
		if meta.HasEpisode {
			t.Errorf("ComposeFolder(%q) has an episode number, specials must not", tc.file)
		}
		if got := meta.Special.Name(); got != tc.name {
			t.Errorf("ComposeFolder(%q) special name = %q, want %q", tc.file, got, tc.name)
		}
	}
}

func TestComposeSpecialFolderRouting(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Group] Series"
	out := e.ComposeFolder(folder, []RawEntry{
		entry(folder, "[Group] Series - Bonus [Making].mkv", "SPs"),
	})
	meta := out[0].Meta
	if !meta.IsSpecial {
		t.Fatal("file under SPs folder should be special")
	}
	if got, want := meta.FallbackName, "Making"; got != want {
		t.Errorf("fallback name = %q, want %q", got, want)
	}
}

func TestComposeLanguageSuffixOrder(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Group] Show"
	out := e.ComposeFolder(folder, []RawEntry{
		entry(folder, "[Group] Show [01].zh-TW.ass"),
		entry(folder, "[Group] Show [01].JPTC.zh-Hant.ass"),
	})

	want := [][]LanguageTag{
		{{Raw: "zh-TW", Normalized: "zh-TW"}},
		{{Raw: "JPTC", Normalized: "JPTC"}, {Raw: "zh-Hant", Normalized: "zh-Hant"}},
	}
	for i, c := range out {
		if diff := cmp.Diff(want[i], c.Meta.Languages); diff != "" {
			t.Errorf("ComposeFolder(%q) languages mismatch (-want +got):\n%s", c.Entry.FileName, diff)
		}
	}
}

func TestComposeUnrecognizedRoutesToExtras(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Group] Show"
	out := e.ComposeFolder(folder, []RawEntry{
		entry(folder, "[Group] Show - Drama CD Audio [Flac Only].flac"),
	})

	c := out[0]
	if !c.Meta.IsSpecial {
		t.Fatal("unrecognized file should degrade to extras")
	}
	if got, want := c.Meta.FallbackName, "Flac Only"; got != want {
		t.Errorf("fallback name = %q, want %q", got, want)
	}
	if len(c.Warnings) != 1 || c.Warnings[0].Code != WarnUnrecognizedPattern {
		t.Errorf("warnings = %v, want one UnrecognizedPattern", c.Warnings)
	}
}

func TestComposeMalformedCompoundWarning(t *testing.T) {
	t.Parallel()
	e := NewEngine()
	folder := "[Group] Show"
	out := e.ComposeFolder(folder, []RawEntry{
		entry(folder, "[Group] Show - OP&junk.mkv"),
	})

	c := out[0]
	if !c.Meta.IsSpecial {
		t.Fatal("compound tag with a recognized member should stay special")
	}
	if len(c.Warnings) != 1 || c.Warnings[0].Code != WarnMalformedCompoundTag {
		t.Errorf("warnings = %v, want one MalformedCompoundTag", c.Warnings)
	}
}
