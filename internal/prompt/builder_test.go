package prompt

import (
	"strings"
	"testing"

	"github.com/hpungsan/lectern/internal/style"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		n, total int
		want     Kind
	}{
		{1, 1, KindOpener},
		{1, 5, KindOpener},
		{2, 5, KindBody},
		{4, 5, KindBody},
		{5, 5, KindCloser},
		{2, 2, KindCloser},
	}
	for _, tt := range tests {
		if got := KindFor(tt.n, tt.total); got != tt.want {
			t.Errorf("KindFor(%d, %d) = %s, want %s", tt.n, tt.total, got, tt.want)
		}
	}
}

func TestBuild_Opener(t *testing.T) {
	st := style.LookupStyle("professional")
	for _, total := range []int{1, 3} {
		p := Build(Input{SlideText: "Intro to Topic", SlideNumber: 1, TotalSlides: total, Style: st})

		if !strings.Contains(p, "Good morning everyone") {
			t.Errorf("total=%d: opener should ask for a greeting: %q", total, p)
		}
		if !strings.Contains(p, "'Intro to Topic'") {
			t.Errorf("total=%d: opener should quote the title slide: %q", total, p)
		}
		if !strings.Contains(p, "Tone: "+st.PromptStyle) {
			t.Errorf("total=%d: opener should embed tone: %q", total, p)
		}
		if strings.Contains(p, SignOff) {
			t.Errorf("total=%d: opener must not carry the sign-off", total)
		}
	}
}

func TestBuild_CloserWithContext(t *testing.T) {
	w := &Window{}
	long := strings.Repeat("a", 90) + strings.Repeat("b", 60)
	w.Append(Entry{SlideNumber: 2, SourceText: "x", Narration: long})

	p := Build(Input{SlideText: "Thank you", SlideNumber: 3, TotalSlides: 3, Style: style.LookupStyle("engaging"), Window: w})

	want := "Previous slide discussed: " + strings.Repeat("a", 90) + strings.Repeat("b", 10) + "..."
	if !strings.Contains(p, want) {
		t.Errorf("closer should embed first 100 runes of previous narration:\n%s", p)
	}
	if !strings.Contains(p, "End with this exact sign-off: '"+SignOff+"'") {
		t.Errorf("closer should require the sign-off:\n%s", p)
	}
	if !strings.Contains(p, "Do NOT say 'Good morning'") {
		t.Errorf("closer should forbid the greeting:\n%s", p)
	}
}

func TestBuild_CloserWithoutContext(t *testing.T) {
	p := Build(Input{SlideText: "Bye now", SlideNumber: 2, TotalSlides: 2, Style: style.LookupStyle("engaging")})

	if !strings.Contains(p, "Context from previous slide: \n") {
		t.Errorf("closer without history should leave context empty:\n%s", p)
	}
	if strings.Contains(p, "Previous slide discussed") {
		t.Errorf("closer without history should not mention a previous slide:\n%s", p)
	}
}

func TestBuild_BodyContextBound(t *testing.T) {
	w := &Window{}
	for i := 1; i <= 4; i++ {
		w.Append(Entry{
			SlideNumber: i,
			SourceText:  "src",
			Narration:   strings.Repeat("x", 300) + "END" + string(rune('0'+i)),
		})
	}

	p := Build(Input{SlideText: "Growth numbers", SlideNumber: 5, TotalSlides: 9, Style: style.LookupStyle("casual"), Window: w})

	if strings.Contains(p, "Slide 1 ended with") || strings.Contains(p, "Slide 2 ended with") {
		t.Errorf("body should only reference the last two entries:\n%s", p)
	}
	for _, n := range []string{"3", "4"} {
		prefix := "Slide " + n + " ended with: ..."
		idx := strings.Index(p, prefix)
		if idx < 0 {
			t.Fatalf("body missing context for slide %s:\n%s", n, p)
		}
		line := p[idx+len(prefix):]
		line = line[:strings.Index(line, "\n")]
		if got := len([]rune(line)); got != BodyTailRunes {
			t.Errorf("slide %s excerpt has %d runes, want %d", n, got, BodyTailRunes)
		}
		if !strings.HasSuffix(line, "END"+n) {
			t.Errorf("slide %s excerpt should be the tail of the narration: %q", n, line)
		}
	}
	for _, want := range []string{"Do NOT say 'Good morning'", "Do NOT introduce yourself", "transition phrase", "slide 5 of 9"} {
		if !strings.Contains(p, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestBuild_BodyEmptyWindow(t *testing.T) {
	p := Build(Input{SlideText: "Middle", SlideNumber: 2, TotalSlides: 3, Style: style.LookupStyle("engaging")})
	if !strings.Contains(p, "PREVIOUS CONTEXT (flow from this):\n\n") {
		t.Errorf("body with empty window should have an empty context section:\n%s", p)
	}
}

func TestBuild_LevelGuidance(t *testing.T) {
	lvl := style.LookupLevel("none")
	p := Build(Input{SlideText: "Facts", SlideNumber: 2, TotalSlides: 3, Style: style.LookupStyle("engaging"), Level: &lvl})
	if !strings.HasSuffix(p, lvl.Guidance()) {
		t.Errorf("prompt should end with level guidance:\n%s", p)
	}

	p = Build(Input{SlideText: "Facts", SlideNumber: 2, TotalSlides: 3, Style: style.LookupStyle("engaging")})
	if strings.Contains(p, "ENRICHMENT:") {
		t.Error("prompt without level should carry no enrichment block")
	}
}

func TestHeadTail_Runes(t *testing.T) {
	s := "héllo wörld"
	if got := Head(s, 4); got != "héll" {
		t.Errorf("Head = %q", got)
	}
	if got := Tail(s, 4); got != "örld" {
		t.Errorf("Tail = %q", got)
	}
	if got := Tail("ab", 10); got != "ab" {
		t.Errorf("Tail short = %q", got)
	}
}

func TestWindow(t *testing.T) {
	var w Window
	if _, ok := w.Last(); ok {
		t.Error("empty window should have no last entry")
	}
	if got := w.Tail(2); got != nil {
		t.Errorf("empty Tail = %v", got)
	}

	w.Append(Entry{SlideNumber: 1, Narration: "one"})
	w.Append(Entry{SlideNumber: 2, Narration: "two"})
	w.Append(Entry{SlideNumber: 4, Narration: "four"})

	tail := w.Tail(2)
	if len(tail) != 2 || tail[0].SlideNumber != 2 || tail[1].SlideNumber != 4 {
		t.Errorf("Tail(2) = %+v", tail)
	}
	tail[0].Narration = "changed"
	if w.Entries()[1].Narration != "two" {
		t.Error("Tail should return a copy")
	}
	if last, _ := w.Last(); last.SlideNumber != 4 {
		t.Errorf("Last = %+v", last)
	}
}
