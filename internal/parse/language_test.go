package parse

import "testing"

func TestLanguageClassify(t *testing.T) {
	t.Parallel()
	c := NewLanguageClassifier(nil)
	tests := []struct {
		in      string
		want    string
		matched bool
	}{
		{"JPTC", "JPTC", true},
		{"jptc", "JPTC", true},
		{"ENCN", "ENCN", true},
		{"ZHCN", "ZHCN", true},
		{"zh-TW", "zh-TW", true},
		{"ZH-tw", "zh-TW", true},
		{"en-US", "en-US", true},
		{"zh-Hant", "zh-Hant", true},
		{"zh-HANS", "zh-Hans", true},
		{"zh-CHT", "zh-CHT", true},
		{"zh-chs", "zh-CHS", true},
		{"zh-ABC", "", false},
		{"HEVC", "", false},
		{"FLAC", "", false},
		{"1080", "", false},
		{"zh-XYZQ", "", false},
		{"qq-TW", "", false},
		{"NCOP", "", false},
	}
	for _, tc := range tests {
		tag, ok := c.Classify(Token{Text: tc.in})
		if ok != tc.matched {
			t.Errorf("Classify(%q) matched = %v, want %v", tc.in, ok, tc.matched)
			continue
		}
		if ok && tag.Normalized != tc.want {
			t.Errorf("Classify(%q) normalized = %q, want %q", tc.in, tag.Normalized, tc.want)
		}
		if ok && tag.Raw != tc.in {
			t.Errorf("Classify(%q) raw = %q, want input preserved", tc.in, tag.Raw)
		}
	}
}

func TestLanguageClassifyCustomVocab(t *testing.T) {
	t.Parallel()
	vocab := &LanguageVocab{Codes: setOf("XX"), Scripts: map[string]struct{}{}}
	c := NewLanguageClassifier(vocab)
	if _, ok := c.Classify(Token{Text: "XXXX"}); !ok {
		t.Error("Classify(XXXX) with custom vocab should match")
	}
	if _, ok := c.Classify(Token{Text: "JPTC"}); ok {
		t.Error("Classify(JPTC) with custom vocab should not match")
	}
}
