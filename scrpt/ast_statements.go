package scrpt

type PrintStmt struct {
	Arg      PrintArg
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition *Comparison
	Body      []Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition *Comparison
	Body      []Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

// LetStmt declares Name and initialises it with Value.
type LetStmt struct {
	Name     *Identifier
	Value    *Expression
	position Position
}

func (s *LetStmt) stmtNode()     {}
func (s *LetStmt) Pos() Position { return s.position }

// InputStmt declares Name and reads it from standard input.
type InputStmt struct {
	Name     *Identifier
	position Position
}

func (s *InputStmt) stmtNode()     {}
func (s *InputStmt) Pos() Position { return s.position }

// AssignStmt stores Value into an already declared Name.
type AssignStmt struct {
	Name     *Identifier
	Value    *Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }
