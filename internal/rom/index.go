package rom

import (
	"bytes"
	"cmp"
	"slices"
)

// The tables in this file are derived from record state on every save and
// are never treated as ground truth.

// lookupID resolves an identifier through the identifier table of img.
func (l Layout) lookupID(img []byte, id uint16) (uint16, bool) {
	t := l.idTable()
	pos := int(id) - l.IDBase
	if !t.present() || !t.fits(img, pos, 0, 2) {
		return l.NoCard, false
	}
	v := t.u16(img, pos, 0)
	return v, v != l.NoCard
}

// writeIDTable stores each card's link at its identifier slot. The first
// card claiming an identifier wins.
func (l Layout) writeIDTable(img []byte, cards []*Card) {
	t := l.idTable()
	if !t.present() {
		return
	}
	seen := make(map[uint16]bool, len(cards))
	for _, c := range cards {
		if seen[c.Stats.ID] {
			continue
		}
		seen[c.Stats.ID] = true
		t.putU16(img, int(c.Stats.ID)-l.IDBase, 0, c.Link)
	}
}

// bindSecondary attaches secondary stat rows to the cards their identifiers
// resolve to. A card keeps the first row bound to it; later rows are dropped.
func (l Layout) bindSecondary(img []byte, cards []*Card) map[int]int {
	t := l.secondaryTable()
	bound := make(map[int]int)
	if !t.present() {
		return bound
	}
	for row := 0; row < t.Count; row++ {
		st := readStats(t, img, row)
		idx, ok := l.lookupID(img, st.ID)
		if !ok || int(idx) >= len(cards) {
			continue
		}
		c := cards[idx]
		if c.Secondary != nil {
			continue
		}
		c.Secondary = &st
		c.SecondaryRow = row
		bound[row] = int(idx)
	}
	return bound
}

type passwordEntry struct {
	password uint32
	id       uint16
}

// passwordIndex maps each non-zero password to the identifier of the lowest
// indexed card carrying it, ordered by password.
func passwordIndex(cards []*Card) []passwordEntry {
	seen := make(map[uint32]bool, len(cards))
	var out []passwordEntry
	for _, c := range cards {
		if c.Password == 0 || seen[c.Password] {
			continue
		}
		seen[c.Password] = true
		out = append(out, passwordEntry{password: c.Password, id: c.Stats.ID})
	}
	slices.SortFunc(out, func(a, b passwordEntry) int {
		return cmp.Compare(a.password, b.password)
	})
	return out
}

func (l Layout) writePasswordTable(img []byte, cards []*Card) {
	t := l.passwordTable()
	if !t.present() {
		return
	}
	entries := passwordIndex(cards)
	for row := 0; row < t.Count; row++ {
		var buf [passwordRowSize]byte
		if row < len(entries) {
			// passwords were range checked before the index is built
			enc, _ := EncodePassword(entries[row].password)
			copy(buf[:4], enc[:])
			buf[4] = byte(entries[row].id)
			buf[5] = byte(entries[row].id >> 8)
		}
		t.putBytes(img, row, 0, buf[:])
	}
}

// LookupPassword resolves a password through the derived index.
func (s *Session) LookupPassword(password uint32) (uint16, bool) {
	entries := passwordIndex(s.cards)
	i, ok := slices.BinarySearchFunc(entries, password, func(e passwordEntry, p uint32) int {
		return cmp.Compare(e.password, p)
	})
	if !ok {
		return 0, false
	}
	return entries[i].id, true
}

// ranks returns the stored rank of every card outside the excluded range.
// Equal names share a rank; ranks are dense and stored values start at 1.
func (l Layout) ranks(cards []*Card) map[int]uint16 {
	type named struct {
		name  []byte
		index int
	}
	var items []named
	for _, c := range cards {
		if c.Index >= l.RankExcludeStart && c.Index < l.RankExcludeEnd {
			continue
		}
		items = append(items, named{name: encodeText(c.Name.Value), index: c.Index})
	}
	slices.SortFunc(items, func(a, b named) int {
		if n := bytes.Compare(a.name, b.name); n != 0 {
			return n
		}
		return cmp.Compare(a.index, b.index)
	})

	out := make(map[int]uint16, len(items))
	rank := -1
	for i, it := range items {
		if i == 0 || !bytes.Equal(it.name, items[i-1].name) {
			rank++
		}
		out[it.index] = uint16(rank + 1)
	}
	return out
}

func (l Layout) writeRanks(img []byte, cards []*Card) {
	t := l.rankTable()
	if !t.present() {
		return
	}
	for index, r := range l.ranks(cards) {
		t.putU16(img, index, 0, r)
	}
}
