package rom

// Layout describes where every table and arena lives inside the image.
// Addresses are file offsets. A table with a zero base or count is treated
// as absent.
type Layout struct {
	NumCards int `toml:"num_cards"`

	NamePtrBase int `toml:"name_ptr_base"`
	DescPtrBase int `toml:"desc_ptr_base"`
	TextBase    int `toml:"text_base"`
	TextLimit   int `toml:"text_limit"`

	StatsBase      int `toml:"stats_base"`
	StatsStride    int `toml:"stats_stride"`
	SecondaryBase  int `toml:"secondary_base"`
	SecondaryCount int `toml:"secondary_count"`

	IDTableBase  int    `toml:"id_table_base"`
	IDBase       int    `toml:"id_base"`
	IDTableCount int    `toml:"id_table_count"`
	NoCard       uint16 `toml:"no_card"`

	InfoBase           int `toml:"info_base"`
	InfoStride         int `toml:"info_stride"`
	PasswordTableBase  int `toml:"password_table_base"`
	PasswordTableCount int `toml:"password_table_count"`

	RankBase         int `toml:"rank_base"`
	RankExcludeStart int `toml:"rank_exclude_start"`
	RankExcludeEnd   int `toml:"rank_exclude_end"`

	ArtworkBase  int    `toml:"artwork_base"`
	ArtworkCount int    `toml:"artwork_count"`
	NoLabel      uint16 `toml:"no_label"`

	DeckPtrBase int `toml:"deck_ptr_base"`
	NumDecks    int `toml:"num_decks"`
	PackBase    int `toml:"pack_base"`
	NumPacks    int `toml:"num_packs"`

	BlobArenaStart int    `toml:"blob_arena_start"`
	BlobArenaEnd   int    `toml:"blob_arena_end"`
	BlobAlign      int    `toml:"blob_align"`
	DeviceBase     uint32 `toml:"device_base"`
}

const (
	statsSize       = 0x16
	artworkRowSize  = 4
	packRowSize     = 16
	passwordRowSize = 8
	ptrSize         = 4
)

// DefaultLayout returns the layout of the Ultimate Masters 2006 image.
// Only the text, stat and identifier tables are located; the remaining
// tables are left disabled until configured.
func DefaultLayout() Layout {
	return Layout{
		NumCards:     2098,
		NamePtrBase:  0x15BB594,
		DescPtrBase:  0x15BD65C,
		TextBase:     0x15BF724,
		TextLimit:    0x162248A,
		StatsBase:    0x18169B8,
		StatsStride:  statsSize,
		IDTableBase:  0x15B7CCC,
		IDBase:       4007,
		IDTableCount: 0x1000,
		NoCard:       0xFFFF,
		InfoStride:   8,
		NoLabel:      0xFFFF,
		BlobAlign:    4,
		DeviceBase:   0x08000000,
	}
}

// Merge returns l with every non-zero field of o applied on top.
func (l Layout) Merge(o Layout) Layout {
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}
	setInt(&l.NumCards, o.NumCards)
	setInt(&l.NamePtrBase, o.NamePtrBase)
	setInt(&l.DescPtrBase, o.DescPtrBase)
	setInt(&l.TextBase, o.TextBase)
	setInt(&l.TextLimit, o.TextLimit)
	setInt(&l.StatsBase, o.StatsBase)
	setInt(&l.StatsStride, o.StatsStride)
	setInt(&l.SecondaryBase, o.SecondaryBase)
	setInt(&l.SecondaryCount, o.SecondaryCount)
	setInt(&l.IDTableBase, o.IDTableBase)
	setInt(&l.IDBase, o.IDBase)
	setInt(&l.IDTableCount, o.IDTableCount)
	setInt(&l.InfoBase, o.InfoBase)
	setInt(&l.InfoStride, o.InfoStride)
	setInt(&l.PasswordTableBase, o.PasswordTableBase)
	setInt(&l.PasswordTableCount, o.PasswordTableCount)
	setInt(&l.RankBase, o.RankBase)
	setInt(&l.RankExcludeStart, o.RankExcludeStart)
	setInt(&l.RankExcludeEnd, o.RankExcludeEnd)
	setInt(&l.ArtworkBase, o.ArtworkBase)
	setInt(&l.ArtworkCount, o.ArtworkCount)
	setInt(&l.DeckPtrBase, o.DeckPtrBase)
	setInt(&l.NumDecks, o.NumDecks)
	setInt(&l.PackBase, o.PackBase)
	setInt(&l.NumPacks, o.NumPacks)
	setInt(&l.BlobArenaStart, o.BlobArenaStart)
	setInt(&l.BlobArenaEnd, o.BlobArenaEnd)
	setInt(&l.BlobAlign, o.BlobAlign)
	if o.NoCard != 0 {
		l.NoCard = o.NoCard
	}
	if o.NoLabel != 0 {
		l.NoLabel = o.NoLabel
	}
	if o.DeviceBase != 0 {
		l.DeviceBase = o.DeviceBase
	}
	return l
}

func (l Layout) textTables() (names, descs table) {
	return table{Name: "name pointers", Base: l.NamePtrBase, Stride: ptrSize, Count: l.NumCards},
		table{Name: "description pointers", Base: l.DescPtrBase, Stride: ptrSize, Count: l.NumCards}
}

func (l Layout) statsTable() table {
	return table{Name: "stats", Base: l.StatsBase, Stride: l.StatsStride, Count: l.NumCards}
}

func (l Layout) secondaryTable() table {
	return table{Name: "secondary stats", Base: l.SecondaryBase, Stride: l.StatsStride, Count: l.SecondaryCount}
}

func (l Layout) idTable() table {
	return table{Name: "identifier table", Base: l.IDTableBase, Stride: 2, Count: l.IDTableCount}
}

func (l Layout) infoTable() table {
	return table{Name: "card info", Base: l.InfoBase, Stride: l.InfoStride, Count: l.NumCards}
}

func (l Layout) passwordTable() table {
	return table{Name: "password table", Base: l.PasswordTableBase, Stride: passwordRowSize, Count: l.PasswordTableCount}
}

func (l Layout) rankTable() table {
	return table{Name: "rank table", Base: l.RankBase, Stride: 2, Count: l.NumCards}
}

func (l Layout) artworkTable() table {
	return table{Name: "artwork", Base: l.ArtworkBase, Stride: artworkRowSize, Count: l.ArtworkCount}
}

func (l Layout) deckTable() table {
	return table{Name: "deck pointers", Base: l.DeckPtrBase, Stride: ptrSize, Count: l.NumDecks}
}

func (l Layout) packTable() table {
	return table{Name: "packs", Base: l.PackBase, Stride: packRowSize, Count: l.NumPacks}
}
