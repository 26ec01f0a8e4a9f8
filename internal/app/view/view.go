// Package view renders dashboard snapshots into a UI tree.
//
// Render is pure: the same snapshot and options always produce the same tree.
// Front-ends turn the tree into output with RenderHTML or RenderText and map
// Action values back onto port.Dashboard calls.
package view

import "yolodash/internal/domain/entity"

// Kind is the type of a UI node.
type Kind string

const (
	KindContainer Kind = "container"
	KindText      Kind = "text"
	KindLink      Kind = "link"
	KindButton    Kind = "button"
	KindImage     Kind = "image"
	KindRule      Kind = "rule"
	KindTable     Kind = "table"
	KindRow       Kind = "row"
	KindCell      Kind = "cell"
)

// Action names a user action carried by a button.
type Action string

const (
	ActionConnect      Action = "connect"
	ActionDisconnect   Action = "disconnect"
	ActionSelectHome   Action = "select-home"
	ActionSelectShade  Action = "select-shade"
	ActionRefreshPrice Action = "refresh-price"
	ActionRefreshBatch Action = "refresh-batch"
)

// Actions lists every action a rendered tree may carry.
var Actions = []Action{
	ActionConnect,
	ActionDisconnect,
	ActionSelectHome,
	ActionSelectShade,
	ActionRefreshPrice,
	ActionRefreshBatch,
}

// Node is one element of the UI tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	ID       string  `json:"id,omitempty"`
	Class    string  `json:"class,omitempty"`
	Text     string  `json:"text,omitempty"`
	Href     string  `json:"href,omitempty"`
	Src      string  `json:"src,omitempty"`
	Action   Action  `json:"action,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Options are the static inputs of Render.
type Options struct {
	Title          string
	LogoURL        string
	HomeImage      string
	PriceSymbol    string
	TrackedSymbols []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Title:          "YoloDash",
		LogoURL:        "https://yolodash.com",
		HomeImage:      "./static/mn-steady.png",
		PriceSymbol:    entity.DefaultPriceSymbol,
		TrackedSymbols: entity.DefaultTrackedSymbols,
	}
}

// Render maps a snapshot to a UI tree.
func Render(snap entity.Snapshot, opts Options) *Node {
	return container("container",
		topBar(snap, opts),
		&Node{Kind: KindRule, Class: "gold-line"},
		container("links-wallet-container",
			container("links",
				button("link-button", "Home", ActionSelectHome),
				button("link-button", "Shade", ActionSelectShade),
			),
			walletDisplay(snap),
		),
		&Node{Kind: KindRule, Class: "gold-line"},
		body(snap, opts),
	)
}

// FindAction returns the first button in the tree carrying action, or nil.
func FindAction(root *Node, action Action) *Node {
	if root == nil {
		return nil
	}
	if root.Kind == KindButton && root.Action == action {
		return root
	}
	for _, child := range root.Children {
		if n := FindAction(child, action); n != nil {
			return n
		}
	}
	return nil
}

// FindByID returns the first node with the given ID, or nil.
func FindByID(root *Node, id string) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if n := FindByID(child, id); n != nil {
			return n
		}
	}
	return nil
}

func topBar(snap entity.Snapshot, opts Options) *Node {
	logo := &Node{Kind: KindLink, Class: "logo", Text: opts.Title, Href: opts.LogoURL}
	if snap.Connected {
		return container("top-bar", logo, button("connect-wallet", "Logout", ActionDisconnect))
	}
	return container("top-bar", logo, button("connect-wallet", "Connect Wallet", ActionConnect))
}

func walletDisplay(snap entity.Snapshot) *Node {
	text := snap.WalletAddress
	if snap.Connected {
		text = entity.WalletAddressCaption + snap.WalletAddress
	}
	return container("wallet-address", &Node{Kind: KindText, ID: "wallet-address", Text: text})
}

func body(snap entity.Snapshot, opts Options) *Node {
	if snap.SelectedSection == entity.SectionHome {
		return container("home",
			&Node{Kind: KindImage, ID: "main-page-image", Class: "main-page-image", Src: opts.HomeImage, Text: "Main Page Image"},
		)
	}

	rows := make([]*Node, 0, len(opts.TrackedSymbols)+1)
	rows = append(rows, &Node{Kind: KindRow, Class: "header", Children: []*Node{
		{Kind: KindCell, Text: "Asset"},
		{Kind: KindCell, Text: "Price"},
	}})
	for _, symbol := range opts.TrackedSymbols {
		rows = append(rows, &Node{Kind: KindRow, ID: "batch-" + symbol, Children: []*Node{
			{Kind: KindCell, Text: symbol},
			{Kind: KindCell, Class: "price", Text: snap.BatchPrice(symbol)},
		}})
	}

	return &Node{Kind: KindContainer, ID: "price-panel", Class: "section-content", Children: []*Node{
		{Kind: KindText, ID: "shd-price", Class: "price-display", Text: snap.SinglePrice},
		button("refresh-price", "Refresh "+opts.PriceSymbol+" Price", ActionRefreshPrice),
		{Kind: KindTable, ID: "batch-prices", Class: "price-table", Children: rows},
		button("refresh-price", "Refresh Prices", ActionRefreshBatch),
	}}
}

func container(class string, children ...*Node) *Node {
	return &Node{Kind: KindContainer, Class: class, Children: children}
}

func button(class, text string, action Action) *Node {
	return &Node{Kind: KindButton, Class: class, Text: text, Action: action}
}
