package scrpt

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

// Program is the parsed form of one source file. Declared lists every
// variable name in the order its let/input statement appeared.
type Program struct {
	Statements []Statement
	Declared   []string
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

// Comparator is the relational operator of a Comparison. Only the six
// values below are ever produced by the parser.
type Comparator string

const (
	CompareGT  Comparator = ">"
	CompareGTE Comparator = ">="
	CompareLT  Comparator = "<"
	CompareLTE Comparator = "<="
	CompareEQ  Comparator = "=="
	CompareNE  Comparator = "!="
)

var comparators = map[TokenType]Comparator{
	TokenGT:    CompareGT,
	TokenGTE:   CompareGTE,
	TokenLT:    CompareLT,
	TokenLTE:   CompareLTE,
	TokenEQ:    CompareEQ,
	TokenNotEQ: CompareNE,
}

// Comparison is the condition of an if or while: exactly one relational
// operator between two expressions.
type Comparison struct {
	Op       Comparator
	Left     *Expression
	Right    *Expression
	position Position
}

func (c *Comparison) Pos() Position { return c.position }

type AdditiveOp string

const (
	OpAdd AdditiveOp = "+"
	OpSub AdditiveOp = "-"
)

type MultiplicativeOp string

const (
	OpMul MultiplicativeOp = "*"
	OpDiv MultiplicativeOp = "/"
)

// Expression is term [("+" | "-") expression]. The continuation holds a full
// expression, so chains lean to the right: a - b - c is a - (b - c) in the
// tree.
type Expression struct {
	Left     *Term
	Tail     *ExpressionTail
	position Position
}

func (e *Expression) Pos() Position { return e.position }
func (e *Expression) printArg()     {}

type ExpressionTail struct {
	Op    AdditiveOp
	Right *Expression
}

// Term is unary [("*" | "/") term], right-leaning like Expression.
type Term struct {
	Left     *Unary
	Tail     *TermTail
	position Position
}

func (t *Term) Pos() Position { return t.position }

type TermTail struct {
	Op    MultiplicativeOp
	Right *Term
}

type Sign int

const (
	Unsigned Sign = iota
	Positive
	Negative
)

func (s Sign) String() string {
	switch s {
	case Positive:
		return "+"
	case Negative:
		return "-"
	default:
		return ""
	}
}

type Unary struct {
	Sign     Sign
	Operand  Primary
	position Position
}

func (u *Unary) Pos() Position { return u.position }

// Primary is either a *NumberLiteral or an *Identifier.
type Primary interface {
	Node
	primaryNode()
}

type NumberLiteral struct {
	Value    int64
	position Position
}

func (n *NumberLiteral) Pos() Position { return n.position }
func (n *NumberLiteral) primaryNode()  {}

type Identifier struct {
	Name     string
	position Position
}

func (i *Identifier) Pos() Position { return i.position }
func (i *Identifier) primaryNode()  {}

// PrintArg is the operand of print: a *StringLiteral or an *Expression.
type PrintArg interface {
	Node
	printArg()
}

// StringLiteral holds the text between the quotes, unescaped.
type StringLiteral struct {
	Value    string
	position Position
}

func (s *StringLiteral) Pos() Position { return s.position }
func (s *StringLiteral) printArg()     {}
