package po

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSerializeBasic(t *testing.T) {
	c := &Catalog{TopComments: []string{"# Top."}}
	c.Header.Set("Language", "de")
	c.Header.Set("Plural-Forms", "nplurals=2; plural=(n != 1);")
	c.Entries = append(c.Entries, &Entry{
		Comments:          []string{"note"},
		ExtractedComments: []string{"from source"},
		References:        []Reference{{Path: "a.go", Line: 1}, {Path: "b.go", Line: 2}},
		Flags:             []string{"fuzzy", "c-format"},
		PrevMsgID:         []string{"helo"},
		MsgID:             []string{"hello"},
		MsgStr:            []string{"hallo"},
	})

	want := `# Top.
msgid ""
msgstr ""
"Language: de\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

# note
#. from source
#: a.go:1 b.go:2
#, c-format, fuzzy
#| msgid "helo"
msgid "hello"
msgstr "hallo"
`
	if got := string(Serialize(c)); got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializePlural(t *testing.T) {
	c := &Catalog{Entries: []*Entry{{
		MsgID:       []string{"%d file"},
		MsgIDPlural: []string{"%d files"},
		MsgStrPlural: map[int][]string{
			1: {"Dateien"},
			0: {"Datei"},
		},
	}}}
	want := `msgid ""
msgstr ""

msgid "%d file"
msgid_plural "%d files"
msgstr[0] "Datei"
msgstr[1] "Dateien"
`
	if got := string(Serialize(c)); got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeObsolete(t *testing.T) {
	c := &Catalog{Entries: []*Entry{{
		Comments:  []string{"kept"},
		PrevMsgID: []string{"oldest"},
		MsgID:     []string{"old"},
		MsgStr:    []string{"alt"},
		Obsolete:  true,
	}}}
	want := `msgid ""
msgstr ""

# kept
#~| msgid "oldest"
#~ msgid "old"
#~ msgstr "alt"
`
	if got := string(Serialize(c)); got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeEscapes(t *testing.T) {
	c := &Catalog{Entries: []*Entry{{
		MsgID:  []string{"a\tb\nc\"d\\e"},
		MsgStr: []string{""},
	}}}
	got := string(Serialize(c))
	want := `msgid "a\tb\nc\"d\\e"`
	if !strings.Contains(got, want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
}

func TestSerializeMultiFragment(t *testing.T) {
	c := &Catalog{Entries: []*Entry{{
		MsgID:  []string{"", "line one\n", "line two\n"},
		MsgStr: []string{""},
	}}}
	want := `msgid ""
msgstr ""

msgid ""
"line one\n"
"line two\n"
msgstr ""
`
	if got := string(Serialize(c)); got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeReferenceWrapping(t *testing.T) {
	e := &Entry{MsgID: []string{"x"}, MsgStr: []string{"y"}}
	for i := 0; i < 7; i++ {
		e.References = append(e.References, Reference{
			Path: fmt.Sprintf("src/pkg/file_%02d.go", i),
			Line: 100,
		})
	}
	c := &Catalog{Entries: []*Entry{e}}
	out := string(Serialize(c))

	var refLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "#:") {
			refLines = append(refLines, line)
		}
	}
	if len(refLines) != 3 {
		t.Errorf("got %d reference lines, want 3:\n%s", len(refLines), strings.Join(refLines, "\n"))
	}
	for _, line := range refLines {
		if len(line) > 80 {
			t.Errorf("reference line exceeds 80 columns: %q", line)
		}
	}

	back, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("Parse round-trip: %v", err)
	}
	if !reflect.DeepEqual(back.Entries[0].References, e.References) {
		t.Errorf("references after round-trip = %v, want %v",
			back.Entries[0].References, e.References)
	}
}

func TestSerializeReferenceWithoutLine(t *testing.T) {
	e := &Entry{
		MsgID:  []string{"x"},
		MsgStr: []string{"y"},
		References: []Reference{
			{Path: "bar"},
			{Path: "foo.c", Line: 12},
			{Path: "baz"},
			{Path: "qux"},
		},
	}
	out := string(Serialize(&Catalog{Entries: []*Entry{e}}))
	if !strings.Contains(out, "#: bar\n#: foo.c:12 baz qux\n") {
		t.Errorf("lineless reference not split from the following lined one:\n%s", out)
	}

	back, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("Parse round-trip: %v", err)
	}
	if !reflect.DeepEqual(back.Entries[0].References, e.References) {
		t.Errorf("references after round-trip = %v, want %v",
			back.Entries[0].References, e.References)
	}
}

func TestSerializeOverlongReference(t *testing.T) {
	e := &Entry{
		MsgID:      []string{"x"},
		MsgStr:     []string{"y"},
		References: []Reference{{Path: strings.Repeat("d/", 50) + "f.go", Line: 1}},
	}
	out := string(Serialize(&Catalog{Entries: []*Entry{e}}))
	if !strings.Contains(out, "#: "+strings.Repeat("d/", 50)+"f.go:1\n") {
		t.Errorf("over-long reference not kept on a single line:\n%s", out)
	}
}

func TestSerializeEmptyCatalog(t *testing.T) {
	got := string(Serialize(&Catalog{}))
	want := "msgid \"\"\nmsgstr \"\"\n"
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

const roundTripSrc = `# Translators list.
# Second line.
msgid ""
msgstr ""
"Project-Id-Version: demo 1.0\n"
"Language: de\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

#. greeting shown at startup
#: cmd/root.go:12 cmd/help.go:7
msgid "Hello, World!"
msgstr "Hallo, Welt!"

# translator note
#, fuzzy, c-format
#| msgid "%d file removed"
msgctxt "cleanup"
msgid "%d file deleted"
msgid_plural "%d files deleted"
msgstr[0] "%d Datei gelöscht"
msgstr[1] "%d Dateien gelöscht"

#: scripts/gen
#: tools/gen.c:3
msgid ""
"multi\n"
"line\n"
msgstr ""
"mehr\n"
"zeilig\n"

#~| msgid "ancient"
#~ msgid "legacy"
#~ msgstr "Altlast"
`

func TestRoundTrip(t *testing.T) {
	first, err := Parse([]byte(roundTripSrc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := Serialize(first)
	second, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Serialize): %v\n%s", err, out)
	}
	if !first.Equal(second) {
		t.Errorf("round-trip changed the catalog:\n%s", out)
	}
}

func TestRoundTripStability(t *testing.T) {
	c, err := Parse([]byte(roundTripSrc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	once := Serialize(c)
	again, err := Parse(once)
	if err != nil {
		t.Fatalf("Parse(Serialize): %v", err)
	}
	twice := Serialize(again)
	if string(once) != string(twice) {
		t.Errorf("serialization is not a fixpoint:\n--- first\n%s\n--- second\n%s", once, twice)
	}
}
