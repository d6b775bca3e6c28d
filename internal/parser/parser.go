// Package parser implements the recursive-descent, Pratt-precedence
// parser that turns a token stream directly into the HIR tree (no
// separate untyped-AST stage): spans are attached as each production
// completes, and types default to Auto wherever the grammar permits an
// omitted annotation.
package parser

import (
	"fmt"
	"strconv"

	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
	"github.com/orizon-lang/numc/internal/span"
	"github.com/orizon-lang/numc/internal/types"
)

func parseFloat(lexeme string) (float64, error) {
	return strconv.ParseFloat(lexeme, 64)
}

// Error is returned on the first syntax error; the parser does not
// attempt recovery.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Parser walks a fixed token slice with a single position cursor.
type Parser struct {
	tokens   []lexer.Token
	position int
}

// New constructs a Parser over a complete token stream (as produced by
// lexer.Lex, including its trailing EOF token).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses tokens into a Program: a sequence of top-level statements
// accepted only when they are variable declarations or function
// definitions.
func Parse(tokens []lexer.Token) (*hir.Program, error) {
	p := New(tokens)
	return p.ParseProgram()
}

func precedence(tag lexer.Tag) int {
	switch tag {
	case lexer.Or:
		return 5
	case lexer.And:
		return 6
	case lexer.Equal, lexer.NotEqual,
		lexer.Less, lexer.Greater, lexer.LessEqual, lexer.GreaterEqual:
		return 10
	case lexer.Plus, lexer.Minus:
		return 20
	case lexer.Star, lexer.Slash, lexer.Percent:
		return 40
	default:
		return -1
	}
}

func (p *Parser) peek() *lexer.Token {
	return p.peekOffset(0)
}

func (p *Parser) peekOffset(offset int) *lexer.Token {
	idx := p.position + offset
	if idx >= len(p.tokens) {
		return nil
	}
	return &p.tokens[idx]
}

func (p *Parser) consume() *lexer.Token {
	if p.position >= len(p.tokens) {
		return nil
	}
	tok := &p.tokens[p.position]
	p.position++
	return tok
}

func (p *Parser) consumeOptional(tag lexer.Tag) *lexer.Token {
	if t := p.peek(); t != nil && t.Tag == tag {
		return p.consume()
	}
	return nil
}

func (p *Parser) consumeAssert(tag lexer.Tag, message string) (*lexer.Token, error) {
	tok := p.consume()
	if tok == nil {
		return nil, &Error{Message: fmt.Sprintf("%s (unexpected end of input)", message)}
	}
	if tok.Tag != tag {
		return nil, &Error{Message: fmt.Sprintf("%s at %d:%d (got %s)", message, tok.Row, tok.Col, tok.Tag)}
	}
	return tok, nil
}

func tokenSpan(t *lexer.Token) span.Span {
	return span.New(t.Row, t.Col, t.Row, t.Col+len(t.Lexeme))
}

// ParseProgram parses every top-level statement and classifies it.
func (p *Parser) ParseProgram() (*hir.Program, error) {
	prog := &hir.Program{}
	for {
		tok := p.peek()
		if tok == nil || tok.Tag == lexer.EOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		switch stmt.Kind {
		case hir.StmtAssignment:
			declType := stmt.DeclType
			if declType == nil {
				t := types.Base(types.Auto)
				declType = &t
			}
			prog.Globals = append(prog.Globals, &hir.Variable{
				Name:        stmt.AssignName,
				Typ:         *declType,
				Initializer: stmt.AssignRHS,
				Span:        stmt.Span,
			})
		case hir.StmtFunctionDefinition:
			prog.Functions = append(prog.Functions, stmt.Func)
		default:
			return nil, &Error{Message: fmt.Sprintf(
				"Unexpected statement at top level at %s: %s. Only function definitions and variable declarations are allowed at the top level.",
				stmt.Span.String(), stmt.Kind)}
		}
	}
	return prog, nil
}

func (p *Parser) parseType() (types.Type, error) {
	tok := p.peek()
	if tok == nil {
		return types.Type{}, &Error{Message: "Expected type, got end of input"}
	}
	if tok.Tag == lexer.Star {
		p.consume()
		inner, err := p.parseType()
		if err != nil {
			return types.Type{}, err
		}
		return types.Pointer(inner), nil
	}
	var base types.BaseKind
	switch tok.Tag {
	case lexer.F8Type:
		base = types.F8
	case lexer.F16Type:
		base = types.F16
	case lexer.F32Type:
		base = types.F32
	case lexer.F64Type:
		base = types.F64
	default:
		return types.Type{}, &Error{Message: fmt.Sprintf("Expected type, got %s", tok.Tag)}
	}
	p.consume()
	return types.Base(base), nil
}

func (p *Parser) parseBlock() (*hir.Block, error) {
	block := &hir.Block{}
	startTok := p.peek()
	for {
		tok := p.peek()
		if tok == nil || tok.Tag == lexer.RBrace {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if startTok != nil && len(block.Statements) > 0 {
		last := block.Statements[len(block.Statements)-1]
		block.Span = span.Merge(tokenSpan(startTok), last.Span)
	} else if startTok != nil {
		block.Span = tokenSpan(startTok)
	}
	return block, nil
}

func (p *Parser) parseStatement() (*hir.Statement, error) {
	tok := p.peek()
	if tok == nil {
		return nil, &Error{Message: "Unexpected end of input"}
	}

	switch tok.Tag {
	case lexer.Semicolon:
		return nil, &Error{Message: fmt.Sprintf(
			"Unexpected semicolon at line %d:%d. This language does not use semicolons.", tok.Row, tok.Col)}

	case lexer.Fn:
		return p.parseFunctionDefinition()

	case lexer.LBrace:
		start := p.consume()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		end, err := p.consumeAssert(lexer.RBrace, "Missing } after body")
		if err != nil {
			return nil, err
		}
		return &hir.Statement{Kind: hir.StmtBlock, Body: body, Span: span.Merge(tokenSpan(start), tokenSpan(end))}, nil

	case lexer.Return:
		start := p.consume()
		var value *hir.Expression
		sp := tokenSpan(start)
		if next := p.peek(); next != nil && next.Tag != lexer.RBrace && next.Tag != lexer.EOF {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			value = expr
			sp = span.Merge(sp, expr.Span)
		}
		return &hir.Statement{Kind: hir.StmtReturn, ReturnValue: value, Span: sp}, nil

	case lexer.While:
		return p.parseWhile()

	case lexer.If:
		return p.parseIf()

	case lexer.Identifier:
		return p.parseIdentifierStatement()

	case lexer.Var:
		return p.parseVarDeclaration()

	default:
		return nil, &Error{Message: fmt.Sprintf("Unexpected token: %s", tok.Tag)}
	}
}

func (p *Parser) parseFunctionDefinition() (*hir.Statement, error) {
	start := p.consume() // 'fn'
	name, err := p.consumeAssert(lexer.Identifier, "Expected function name after 'fn'")
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeAssert(lexer.LParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []*hir.Variable
	for {
		t := p.peek()
		if t == nil || t.Tag == lexer.RParen {
			break
		}
		argName, err := p.consumeAssert(lexer.Identifier, "Expected argument name")
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeAssert(lexer.Colon, "Expected ':' after argument name"); err != nil {
			return nil, err
		}
		argType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		var initializer *hir.Expression
		if t := p.peek(); t != nil && t.Tag == lexer.Assign {
			p.consume()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			initializer = expr
		}
		params = append(params, &hir.Variable{Name: argName.Lexeme, Typ: argType, Initializer: initializer, Span: tokenSpan(argName)})
		if t := p.peek(); t != nil && t.Tag == lexer.Comma {
			p.consume()
		}
	}
	if _, err := p.consumeAssert(lexer.RParen, "Expected ')' after arguments"); err != nil {
		return nil, err
	}

	returnType := types.Base(types.Void)
	if p.consumeOptional(lexer.Arrow) != nil {
		rt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		returnType = rt
	}

	if _, err := p.consumeAssert(lexer.LBrace, "Expected '{' before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.consumeAssert(lexer.RBrace, "Expected '}' after function body")
	if err != nil {
		return nil, err
	}

	fnSpan := span.Merge(tokenSpan(start), tokenSpan(end))
	fn := &hir.Function{Name: name.Lexeme, Params: params, ReturnType: returnType, Body: body, Span: fnSpan}
	return &hir.Statement{Kind: hir.StmtFunctionDefinition, Func: fn, Span: fnSpan}, nil
}

func (p *Parser) parseWhile() (*hir.Statement, error) {
	start := p.consume() // 'while'
	p.consumeOptional(lexer.LParen)
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(lexer.RParen)
	if _, err := p.consumeAssert(lexer.LBrace, "Missing { after while conditional"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.consumeAssert(lexer.RBrace, "Missing } after while body")
	if err != nil {
		return nil, err
	}
	return &hir.Statement{Kind: hir.StmtWhile, Condition: condition, Then: body, Span: span.Merge(tokenSpan(start), tokenSpan(end))}, nil
}

func (p *Parser) parseIf() (*hir.Statement, error) {
	start := p.consume() // 'if'
	p.consumeOptional(lexer.LParen)
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.consumeOptional(lexer.RParen)
	if _, err := p.consumeAssert(lexer.LBrace, "Missing { after if conditional"); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end, err := p.consumeAssert(lexer.RBrace, "Missing } after if body")
	if err != nil {
		return nil, err
	}
	endSpan := tokenSpan(end)

	var els *hir.Block
	if t := p.peek(); t != nil && t.Tag == lexer.Else {
		p.consume()
		if _, err := p.consumeAssert(lexer.LBrace, "Expected '{' after 'else'"); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseEnd, err := p.consumeAssert(lexer.RBrace, "Expected '}' after else body")
		if err != nil {
			return nil, err
		}
		els = elseBlock
		endSpan = tokenSpan(elseEnd)
	}

	return &hir.Statement{Kind: hir.StmtIf, Condition: condition, Then: then, Else: els, Span: span.Merge(tokenSpan(start), endSpan)}, nil
}

func (p *Parser) parseIdentifierStatement() (*hir.Statement, error) {
	next := p.peekOffset(1)
	if next != nil && next.Tag == lexer.Assign {
		ident := p.consume()
		p.consume() // '='
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &hir.Statement{Kind: hir.StmtAssignment, AssignName: ident.Lexeme, AssignRHS: rhs, Span: span.Merge(tokenSpan(ident), rhs.Span)}, nil
	}
	if next == nil {
		return nil, &Error{Message: "Unexpected end of input"}
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &hir.Statement{Kind: hir.StmtExpression, Expr: expr, Span: expr.Span}, nil
}

func (p *Parser) parseVarDeclaration() (*hir.Statement, error) {
	start := p.consume() // 'var'
	ident, err := p.consumeAssert(lexer.Identifier, "Expected an identifier after 'var'")
	if err != nil {
		return nil, err
	}

	var declType *types.Type
	if t := p.peek(); t != nil && t.Tag == lexer.Colon {
		p.consume()
		parsed, err := p.parseType()
		if err != nil {
			return nil, err
		}
		declType = &parsed
	} else {
		autoType := types.Base(types.Auto)
		declType = &autoType
	}

	stmtSpan := tokenSpan(start)
	var rhs *hir.Expression
	if t := p.peek(); t != nil && t.Tag == lexer.Assign {
		p.consume()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		rhs = expr
		stmtSpan = span.Merge(stmtSpan, expr.Span)
	} else {
		stmtSpan = span.Merge(stmtSpan, tokenSpan(ident))
	}

	return &hir.Statement{Kind: hir.StmtAssignment, AssignName: ident.Lexeme, DeclType: declType, AssignRHS: rhs, Span: stmtSpan}, nil
}

// parsePrimary parses numbers, booleans, identifiers/calls/variable
// references, and parenthesized expressions. "true"/"false" are not
// lexical keywords (they lex as plain Identifier tokens); the parser
// recognizes their lexeme here and builds a Boolean literal instead of a
// Variable reference.
func (p *Parser) parsePrimary() (*hir.Expression, error) {
	tok := p.peek()
	if tok == nil {
		return nil, &Error{Message: "Unexpected end of input in expression"}
	}

	switch tok.Tag {
	case lexer.LParen:
		p.consume()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consumeAssert(lexer.RParen, "Expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil

	case lexer.Number:
		numTok := p.consume()
		value, err := parseFloat(numTok.Lexeme)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("Failed to parse number: %s", numTok.Lexeme)}
		}
		return &hir.Expression{Kind: hir.ExprNumber, NumberValue: value, Span: tokenSpan(numTok)}, nil

	case lexer.Identifier:
		ident := p.consume()
		switch ident.Lexeme {
		case "true":
			return &hir.Expression{Kind: hir.ExprBoolean, BooleanValue: true, Span: tokenSpan(ident)}, nil
		case "false":
			return &hir.Expression{Kind: hir.ExprBoolean, BooleanValue: false, Span: tokenSpan(ident)}, nil
		}

		if t := p.peek(); t != nil && t.Tag == lexer.LParen {
			p.consume()
			var args []*hir.Expression
			if t := p.peek(); t != nil && t.Tag != lexer.RParen {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				for {
					t := p.peek()
					if t == nil || t.Tag != lexer.Comma {
						break
					}
					p.consume()
					arg, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
				}
			}
			end, err := p.consumeAssert(lexer.RParen, "Expected ')' after arguments")
			if err != nil {
				return nil, err
			}
			return &hir.Expression{Kind: hir.ExprCall, Callee: ident.Lexeme, Args: args, Span: span.Merge(tokenSpan(ident), tokenSpan(end))}, nil
		}

		return &hir.Expression{Kind: hir.ExprVariable, Name: ident.Lexeme, Span: tokenSpan(ident)}, nil

	default:
		return nil, &Error{Message: fmt.Sprintf("Unexpected token in expression: %s", tok.Tag)}
	}
}

func (p *Parser) parseUnary() (*hir.Expression, error) {
	tok := p.peek()
	if tok == nil {
		return nil, &Error{Message: "Unexpected end of input in expression"}
	}
	switch tok.Tag {
	case lexer.Plus, lexer.Minus, lexer.Bang:
		op := p.consume()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &hir.Expression{Kind: hir.ExprUnaryOp, Left: operand, Op: *op, Span: span.Merge(tokenSpan(op), operand.Span)}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseBinopRHS(minPrec int, lhs *hir.Expression) (*hir.Expression, error) {
	for {
		tok := p.peek()
		if tok == nil {
			return lhs, nil
		}
		tokPrec := precedence(tok.Tag)
		if tokPrec < minPrec {
			return lhs, nil
		}
		op := p.consume()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		next := p.peek()
		nextPrec := -1
		if next != nil {
			nextPrec = precedence(next.Tag)
		}
		if tokPrec < nextPrec {
			rhs, err = p.parseBinopRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}
		lhs = &hir.Expression{Kind: hir.ExprBinaryOp, Left: lhs, Right: rhs, Op: *op, Span: span.Merge(lhs.Span, rhs.Span)}
	}
}

func (p *Parser) parseExpression() (*hir.Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return p.parseBinopRHS(0, lhs)
}
