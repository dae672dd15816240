package mdoc

// NodeType distinguishes the structural roles a node can take.
type NodeType int

const (
	TypeText NodeType = iota // leaf carrying literal string content
	TypeElem                 // in-line macro with children
	TypeBlock                // multi-line macro with head/body
	TypeHead                 // block head (section title, item label)
	TypeBody                 // block body
)

// Tag identifies the markup construct of an Elem or Block node.
// The set is closed: unknown macros are dropped at parse time.
type Tag int

const (
	TagNone Tag = iota
	Sh          // section header block
	Ss          // subsection header block
	Pp          // paragraph break
	Nd          // one-line description ("name - description")
	Bl          // list block
	It          // list item
	Bd          // display block
	Lk          // hyperlink
	Mt          // mail-to address
	An          // author name
	Ic          // internal/interactive command
	Dv          // defined constant
	Ev          // environment variable
	Va          // variable name
	Nm          // document/utility name
	Pa          // file path
	Fl          // command flag
	Em          // emphasis
	Sy          // symbolic (bold)
	Xr          // cross reference
	Pq          // parenthesized enclosure
	No          // normal text (macro escape hatch)
)

var tagNames = map[Tag]string{
	Sh: "Sh", Ss: "Ss", Pp: "Pp", Nd: "Nd", Bl: "Bl", It: "It",
	Bd: "Bd", Lk: "Lk", Mt: "Mt", An: "An", Ic: "Ic", Dv: "Dv",
	Ev: "Ev", Va: "Va", Nm: "Nm", Pa: "Pa", Fl: "Fl", Em: "Em",
	Sy: "Sy", Xr: "Xr", Pq: "Pq", No: "No",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "?"
}

// Node flags.
const (
	FlagNoFill    = 1 << iota // preformatted region, keep whitespace verbatim
	FlagNoPrint               // suppress rendering of this node entirely
	FlagLineStart             // first node on its source line
)

// Node is a single node of the parsed document tree. Parent, Prev and
// Next are non-owning back/forward references; a parent owns its child
// chain and children never outlive it.
type Node struct {
	Type  NodeType
	Tok   Tag
	Text  string // payload for TypeText nodes
	Flags int

	Line int // source position, diagnostics only
	Pos  int

	Parent *Node
	Child  *Node // first child
	Prev   *Node
	Next   *Node

	// For blocks and list items: the head (label) and body (content)
	// subtrees. Both are always present on a successfully parsed item.
	Head *Node
	Body *Node
}

// NewText returns a leaf node carrying literal string content.
func NewText(s string) *Node {
	return &Node{Type: TypeText, Text: s}
}

// NewElem returns an in-line element node.
func NewElem(tag Tag) *Node {
	return &Node{Type: TypeElem, Tok: tag}
}

// NewBlock returns a block node with empty head and body subtrees
// already wired into its child chain.
func NewBlock(tag Tag) *Node {
	b := &Node{Type: TypeBlock, Tok: tag}
	b.Head = &Node{Type: TypeHead, Parent: b}
	b.Body = &Node{Type: TypeBody, Parent: b}
	b.Child = b.Head
	b.Head.Next = b.Body
	b.Body.Prev = b.Head
	return b
}

// AppendChild links c as the last child of n, maintaining the
// Parent/Prev/Next invariants.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	if n.Child == nil {
		n.Child = c
		return
	}
	last := n.Child
	for last.Next != nil {
		last = last.Next
	}
	last.Next = c
	c.Prev = last
}

// Doc is a parsed document: prologue metadata plus the content tree.
type Doc struct {
	Title   string // .Dt name
	Section string // .Dt section
	Date    string // .Dd
	Os      string // .Os
	Root    *Node  // content root; its children are the top-level blocks
}
