package lookup

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/i18n/gettext"
)

// AddMO indexes a compiled MO catalog under locale and dom, returning
// the number of indexed messages. Plural entries follow the MO
// convention: singular and plural msgids NUL-joined in the id, the
// translated forms NUL-joined in the string.
func (t *Translations) AddMO(locale, dom string, r io.ReadSeeker) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, err := t.domainLocked(locale, dom)
	if err != nil {
		return 0, err
	}
	iter := gettext.ReadMo(r)
	size := iter.Size()
	added := 0
	for i := 0; i < size; i++ {
		msg, err := iter.Next()
		if err != nil {
			return added, fmt.Errorf("read mo message: %w", err)
		}
		if len(msg.Id) == 0 {
			// Header entry.
			continue
		}
		ids := strings.SplitN(string(msg.Id), "\x00", 2)
		m := message{
			Forms:  strings.Split(string(msg.Str), "\x00"),
			Plural: len(ids) > 1,
		}
		if !m.translated() {
			continue
		}
		key := ids[0]
		if msg.Ctxt != nil {
			key = string(msg.Ctxt) + "\x04" + ids[0]
		}
		d.messages[key] = m
		added++
	}
	return added, nil
}
