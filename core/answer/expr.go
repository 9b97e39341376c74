package answer

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Hard caps keep adversarial nesting from blowing the stack or the clock.
const (
	maxParseDepth = 64
	maxExprNodes  = 256
	maxVariables  = 2
)

var (
	errExprParse  = errors.New("unparseable expression")
	errExprDomain = errors.New("expression domain error")

	// non-trivial sample points; 0 and 1 hide too many differences (x^2 == x*1 at both)
	samplePoints = [...]float64{0.5, 1.7, 2.3}

	implicitMulDigit = regexp.MustCompile(`(\d|\))([a-z(])`)
	implicitMulParen = regexp.MustCompile(`(\))(\d)`)
)

type nodeKind int

const (
	nodeNum nodeKind = iota
	nodeVar
	nodeUnary
	nodeBinary
	nodeCall
)

// exprNode is one node of the parsed expression tree. The tree is built by a
// hand-rolled recursive-descent parser over a closed grammar; no host code
// evaluation is ever involved.
type exprNode struct {
	kind  nodeKind
	val   float64
	name  string // variable or function name
	op    byte
	left  *exprNode
	right *exprNode
}

type exprParser struct {
	s     string
	pos   int
	depth int
	nodes int
	vars  map[string]struct{}
}

// parseExpr parses a canonical (normalized) string into an expression tree and
// reports its free variables. It never panics; malformed input returns ok=false.
func parseExpr(s string) (*exprNode, []string, bool) {
	if s == "" || len(s) > maxInputLength {
		return nil, nil, false
	}
	// insert implicit multiplication: "2x" -> "2*x", "(x+1)(x-1)" -> "(x+1)*(x-1)"
	for i := 0; i < 2; i++ {
		s = implicitMulDigit.ReplaceAllString(s, "$1*$2")
		s = implicitMulParen.ReplaceAllString(s, "$1*$2")
	}

	p := &exprParser{s: s, vars: make(map[string]struct{})}
	root, err := p.parseSum()
	if err != nil || p.pos != len(p.s) {
		return nil, nil, false
	}
	if len(p.vars) > maxVariables {
		return nil, nil, false
	}
	vars := make([]string, 0, len(p.vars))
	for v := range p.vars {
		vars = append(vars, v)
	}
	return root, vars, true
}

func (p *exprParser) enter() error {
	p.depth++
	if p.depth > maxParseDepth {
		return errExprParse
	}
	return nil
}

func (p *exprParser) newNode(n exprNode) (*exprNode, error) {
	p.nodes++
	if p.nodes > maxExprNodes {
		return nil, errExprParse
	}
	node := n
	return &node, nil
}

func (p *exprParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *exprParser) parseSum() (*exprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left, err = p.newNode(exprNode{kind: nodeBinary, op: op, left: left, right: right})
		if err != nil {
			return nil, err
		}
	}
}

func (p *exprParser) parseProduct() (*exprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left, err = p.newNode(exprNode{kind: nodeBinary, op: op, left: left, right: right})
		if err != nil {
			return nil, err
		}
	}
}

// parsePower is right-associative: 2^3^2 == 2^(3^2).
func (p *exprParser) parsePower() (*exprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.peek() != '^' {
		return left, nil
	}
	p.pos++
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return p.newNode(exprNode{kind: nodeBinary, op: '^', left: left, right: right})
}

func (p *exprParser) parseUnary() (*exprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.newNode(exprNode{kind: nodeUnary, left: operand})
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (*exprNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, errExprParse
		}
		p.pos++
		return inner, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case c >= 'a' && c <= 'z':
		return p.parseIdent()
	}
	return nil, errExprParse
}

func (p *exprParser) parseNumber() (*exprNode, error) {
	start := p.pos
	for p.pos < len(p.s) && (p.s[p.pos] >= '0' && p.s[p.pos] <= '9' || p.s[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return nil, errExprParse
	}
	return p.newNode(exprNode{kind: nodeNum, val: v})
}

func (p *exprParser) parseIdent() (*exprNode, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= 'a' && p.s[p.pos] <= 'z' {
		p.pos++
	}
	name := p.s[start:p.pos]

	if p.peek() == '(' {
		return p.parseCall(name)
	}

	switch name {
	case "pi":
		return p.newNode(exprNode{kind: nodeNum, val: math.Pi})
	case "e":
		return p.newNode(exprNode{kind: nodeNum, val: math.E})
	}
	if len(name) != 1 {
		return nil, errExprParse // multi-letter unknowns are not implicit products
	}
	p.vars[name] = struct{}{}
	return p.newNode(exprNode{kind: nodeVar, name: name})
}

func (p *exprParser) parseCall(name string) (*exprNode, error) {
	switch name {
	case "sqrt", "cbrt", "sin", "cos", "tan", "log", "ln", "root":
	default:
		return nil, errExprParse
	}
	p.pos++ // consume '('
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	var second *exprNode
	if p.peek() == ',' {
		if name != "root" {
			return nil, errExprParse
		}
		p.pos++
		if second, err = p.parseSum(); err != nil {
			return nil, err
		}
	}
	if p.peek() != ')' {
		return nil, errExprParse
	}
	p.pos++
	return p.newNode(exprNode{kind: nodeCall, name: name, left: arg, right: second})
}

// eval evaluates the tree at the given variable assignment. Domain failures
// (division by zero, sqrt of a negative, log of a non-positive) return an
// error so the comparison can fail closed.
func (n *exprNode) eval(vars map[string]float64) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.val, nil

	case nodeVar:
		v, ok := vars[n.name]
		if !ok {
			return 0, errExprDomain
		}
		return v, nil

	case nodeUnary:
		v, err := n.left.eval(vars)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case nodeBinary:
		l, err := n.left.eval(vars)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(vars)
		if err != nil {
			return 0, err
		}
		var v float64
		switch n.op {
		case '+':
			v = l + r
		case '-':
			v = l - r
		case '*':
			v = l * r
		case '/':
			if r == 0 {
				return 0, errExprDomain
			}
			v = l / r
		case '^':
			v = math.Pow(l, r)
		}
		return checkDomain(v)

	case nodeCall:
		arg, err := n.left.eval(vars)
		if err != nil {
			return 0, err
		}
		var v float64
		switch n.name {
		case "sqrt":
			if arg < 0 {
				return 0, errExprDomain
			}
			v = math.Sqrt(arg)
		case "cbrt":
			v = math.Cbrt(arg)
		case "sin":
			v = math.Sin(arg)
		case "cos":
			v = math.Cos(arg)
		case "tan":
			v = math.Tan(arg)
		case "log":
			if arg <= 0 {
				return 0, errExprDomain
			}
			v = math.Log10(arg)
		case "ln":
			if arg <= 0 {
				return 0, errExprDomain
			}
			v = math.Log(arg)
		case "root":
			deg, err := n.right.eval(vars)
			if err != nil {
				return 0, err
			}
			if deg == 0 || arg < 0 {
				return 0, errExprDomain
			}
			v = math.Pow(arg, 1/deg)
		}
		return checkDomain(v)
	}
	return 0, errExprDomain
}

func checkDomain(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errExprDomain
	}
	return v, nil
}

// exprEquivalent judges two canonical strings equivalent by evaluating both at
// a fixed set of sample points for each free variable and comparing within the
// tolerance band. Any parse or domain failure fails closed.
func exprEquivalent(a, b string) bool {
	astA, varsA, okA := parseExpr(a)
	astB, varsB, okB := parseExpr(b)
	if !okA || !okB {
		return false
	}

	varSet := make(map[string]struct{}, maxVariables)
	for _, v := range varsA {
		varSet[v] = struct{}{}
	}
	for _, v := range varsB {
		varSet[v] = struct{}{}
	}
	if len(varSet) > maxVariables {
		return false
	}
	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}

	return sampleEqual(astA, astB, vars, map[string]float64{})
}

// sampleEqual recursively assigns each variable every sample point and
// compares the two trees at the resulting grid.
func sampleEqual(a, b *exprNode, vars []string, assignment map[string]float64) bool {
	if len(vars) == 0 {
		va, errA := a.eval(assignment)
		vb, errB := b.eval(assignment)
		if errA != nil || errB != nil {
			return false
		}
		return withinTolerance(va, vb, smartTolerance(math.Max(math.Abs(va), math.Abs(vb))))
	}
	name, rest := vars[0], vars[1:]
	for _, pt := range samplePoints {
		assignment[name] = pt
		if !sampleEqual(a, b, rest, assignment) {
			delete(assignment, name)
			return false
		}
	}
	delete(assignment, name)
	return true
}

// isUnevaluatedExpression classifies a canonical string as arithmetic the
// student should have computed before submitting ("2+3" for a numeric answer).
// Accepted numeric notations (plain/signed numbers, fractions, mixed numbers,
// scientific notation) are never flagged.
func isUnevaluatedExpression(s string) bool {
	if s == "" {
		return false
	}
	if _, _, ok := parseNumeric(s); ok {
		return false
	}
	if strings.ContainsAny(s, "+*/^(") {
		return true
	}
	// interior "-" after a digit is subtraction, not a sign
	for i := 1; i < len(s); i++ {
		if s[i] == '-' && s[i-1] >= '0' && s[i-1] <= '9' {
			return true
		}
	}
	return false
}
