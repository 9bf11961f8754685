package domain

// ResolvedBlock is a block together with its effective layout at a breakpoint.
type ResolvedBlock struct {
	Block     Block      `json:"block"`
	Effective Effective  `json:"effective"`
	At        Breakpoint `json:"breakpoint"`
}

// Effective is the resolved position/size/style/visibility of a block.
type Effective struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
	Style    Style    `json:"style"`
	Visible  bool     `json:"visible"`
}

// PageState represents the complete state of a page for rendering at one breakpoint.
type PageState struct {
	Page       Page            `json:"page"`
	Breakpoint Breakpoint      `json:"breakpoint"`
	Blocks     []ResolvedBlock `json:"blocks"`
}
