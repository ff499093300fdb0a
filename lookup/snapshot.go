package lookup

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/git-l10n/pomerge/plural"
)

const snapshotVersion = 1

// snapshot is the msgpack envelope for a compiled translation set.
// Domains and messages are sorted so the same set always encodes to
// the same bytes.
type snapshot struct {
	Version int              `msgpack:"v"`
	Domains []snapshotDomain `msgpack:"d"`
}

type snapshotDomain struct {
	Locale   string            `msgpack:"l"`
	Domain   string            `msgpack:"n"`
	Messages []snapshotMessage `msgpack:"m"`
}

type snapshotMessage struct {
	Key    string   `msgpack:"k"`
	Forms  []string `msgpack:"f"`
	Plural bool     `msgpack:"p"`
}

// Snapshot serializes every loaded domain to a compact msgpack blob.
func (t *Translations) Snapshot() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.domains))
	for k := range t.domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snap := snapshot{Version: snapshotVersion}
	for _, k := range keys {
		locale, dom, _ := strings.Cut(k, "\x00")
		d := t.domains[k]
		msgs := make([]snapshotMessage, 0, len(d.messages))
		for mk, m := range d.messages {
			msgs = append(msgs, snapshotMessage{Key: mk, Forms: m.Forms, Plural: m.Plural})
		}
		sort.Slice(msgs, func(i, j int) bool { return msgs[i].Key < msgs[j].Key })
		snap.Domains = append(snap.Domains, snapshotDomain{
			Locale:   locale,
			Domain:   dom,
			Messages: msgs,
		})
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// LoadSnapshot rebuilds a translation set from Snapshot output. A nil
// rules source means plural.Default.
func LoadSnapshot(data []byte, rules plural.Source) (*Translations, error) {
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	t := New(rules)
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sd := range snap.Domains {
		d, err := t.domainLocked(sd.Locale, sd.Domain)
		if err != nil {
			return nil, err
		}
		for _, m := range sd.Messages {
			d.messages[m.Key] = message{Forms: m.Forms, Plural: m.Plural}
		}
	}
	return t, nil
}

// Locales returns the locales with at least one loaded domain, sorted.
func (t *Translations) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[string]bool)
	for k := range t.domains {
		locale, _, _ := strings.Cut(k, "\x00")
		seen[locale] = true
	}
	locales := make([]string, 0, len(seen))
	for l := range seen {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}
