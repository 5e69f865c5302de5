package repositories

const (
	// Cursor-mode defaults (comments, notifications).
	DefaultCursorLimit = 10
	MaxCursorLimit     = 100

	// Offset-mode defaults (articles, products).
	DefaultOffsetLimit = 10
	MaxOffsetLimit     = 50

	OrderRecent = "recent"
	OrderOld    = "old"
)

// CursorParams drives cursor-mode listing: rows strictly after the cursor
// row in (created_at DESC, id DESC) order, up to Limit.
type CursorParams struct {
	Limit  int
	Cursor uint // 0 means start from the newest row
}

// Clamp normalizes the limit into the allowed cursor-mode range.
func (p *CursorParams) Clamp() {
	if p.Limit < 1 {
		p.Limit = DefaultCursorLimit
	}
	if p.Limit > MaxCursorLimit {
		p.Limit = MaxCursorLimit
	}
}

// OffsetParams drives offset-mode listing with ordering and search.
type OffsetParams struct {
	Offset int
	Limit  int
	Order  string // recent (default) or old
	Search string // case-insensitive match over title and content
}

// Clamp normalizes offset, limit and order into their allowed ranges.
func (p *OffsetParams) Clamp() {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 1 {
		p.Limit = DefaultOffsetLimit
	}
	if p.Limit > MaxOffsetLimit {
		p.Limit = MaxOffsetLimit
	}
	if p.Order != OrderOld {
		p.Order = OrderRecent
	}
}

func (p OffsetParams) orderClause() string {
	if p.Order == OrderOld {
		return "created_at ASC, id ASC"
	}
	return "created_at DESC, id DESC"
}
