/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package gmir

import (
    `fmt`
    `strconv`
    `strings`
)

// ParseError is reported for malformed textual IR.
type ParseError struct {
    Line   int
    Col    int
    Reason string
}

func (self *ParseError) Error() string {
    return fmt.Sprintf("line %d, column %d: %s", self.Line, self.Col, self.Reason)
}

type _TokenKind uint8

const (
    _T_eof _TokenKind = iota
    _T_eol
    _T_ident
    _T_int
    _T_vreg
    _T_preg
    _T_bref
    _T_global
    _T_punct
)

type _Token struct {
    kind _TokenKind
    text string
    line int
    col  int
}

func (self _Token) String() string {
    switch self.kind {
        case _T_eof : return "end of input"
        case _T_eol : return "end of line"
        default     : return strconv.Quote(self.text)
    }
}

type _Lexer struct {
    src  string
    pos  int
    line int
    col  int
}

func isident(c byte) bool {
    return c == '_' || c == '.' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isdigit(c byte) bool {
    return c >= '0' && c <= '9'
}

func (self *_Lexer) advance(n int) {
    self.pos += n
    self.col += n
}

func (self *_Lexer) word() string {
    p := self.pos
    for self.pos < len(self.src) && isident(self.src[self.pos]) { self.advance(1) }
    return self.src[p:self.pos]
}

func (self *_Lexer) next() (_Token, error) {
    for self.pos < len(self.src) {
        switch c := self.src[self.pos]; {
            case c == ' ' || c == '\t' || c == '\r' : self.advance(1)
            case c == ';'                           : for self.pos < len(self.src) && self.src[self.pos] != '\n' { self.advance(1) }
            default                                 : return self.token()
        }
    }
    return _Token { kind: _T_eof, line: self.line, col: self.col }, nil
}

func (self *_Lexer) token() (_Token, error) {
    c := self.src[self.pos]
    t := _Token { line: self.line, col: self.col }

    /* newlines are significant */
    if c == '\n' {
        t.kind = _T_eol
        self.pos++
        self.line++
        self.col = 1
        return t, nil
    }

    /* "::" is the only two-character punctuation */
    if strings.HasPrefix(self.src[self.pos:], "::") {
        t.kind, t.text = _T_punct, "::"
        self.advance(2)
        return t, nil
    }

    /* single character tokens */
    switch c {
        case '=', ',', '(', ')', '{', '}', ':': {
            t.kind, t.text = _T_punct, string(c)
            self.advance(1)
            return t, nil
        }
    }

    /* sigils */
    switch c {
        case '%': {
            self.advance(1)
            if t.text = self.word(); strings.HasPrefix(t.text, "bb.") {
                t.kind, t.text = _T_bref, t.text[3:]
            } else {
                t.kind = _T_vreg
            }
        }
        case '$': {
            self.advance(1)
            t.kind, t.text = _T_preg, self.word()
        }
        case '@': {
            self.advance(1)
            t.kind, t.text = _T_global, self.word()
        }
        case '-': {
            self.advance(1)
            t.kind, t.text = _T_int, "-" + self.word()
        }
        default: {
            if !isident(c) {
                return t, &ParseError { Line: t.line, Col: t.col, Reason: fmt.Sprintf("unexpected character %q", c) }
            } else if t.text = self.word(); isdigit(c) {
                t.kind = _T_int
            } else {
                t.kind = _T_ident
            }
        }
    }

    /* sigils must be followed by a name */
    if t.text == "" || t.text == "-" {
        return t, &ParseError { Line: t.line, Col: t.col, Reason: fmt.Sprintf("dangling %q", c) }
    } else {
        return t, nil
    }
}

type _Parser struct {
    lx   _Lexer
    tk   _Token
    fn   *Func
    bb   *Block
    refs map[int]*Block
    used map[int]_Token
}

// Parse reads every function in src.
func Parse(src string) ([]*Func, error) {
    var err error
    var ret []*Func
    var fn  *Func

    /* initialize the parser */
    p := &_Parser { lx: _Lexer { src: src, line: 1, col: 1 } }
    if err = p.advance(); err != nil {
        return nil, err
    }

    /* parse all functions */
    for {
        p.skipEOL()
        if p.tk.kind == _T_eof {
            return ret, nil
        } else if fn, err = p.function(); err != nil {
            return nil, err
        } else {
            ret = append(ret, fn)
        }
    }
}

// ParseFunc reads exactly one function from src.
func ParseFunc(src string) (*Func, error) {
    if fns, err := Parse(src); err != nil {
        return nil, err
    } else if len(fns) != 1 {
        return nil, &ParseError { Line: 1, Col: 1, Reason: fmt.Sprintf("expected exactly one function, got %d", len(fns)) }
    } else {
        return fns[0], nil
    }
}

func (self *_Parser) advance() (err error) {
    self.tk, err = self.lx.next()
    return
}

func (self *_Parser) errorf(tk _Token, format string, args ...interface{}) error {
    return &ParseError {
        Line   : tk.line,
        Col    : tk.col,
        Reason : fmt.Sprintf(format, args...),
    }
}

func (self *_Parser) skipEOL() {
    for self.tk.kind == _T_eol {
        if self.advance() != nil {
            return
        }
    }
}

func (self *_Parser) is(kind _TokenKind, text string) bool {
    return self.tk.kind == kind && self.tk.text == text
}

func (self *_Parser) expect(kind _TokenKind, text string) (_Token, error) {
    tk := self.tk
    if tk.kind != kind || (text != "" && tk.text != text) {
        if text != "" {
            return tk, self.errorf(tk, "expected %q, got %s", text, tk)
        } else {
            return tk, self.errorf(tk, "unexpected %s", tk)
        }
    }
    return tk, self.advance()
}

func (self *_Parser) block(id int, tk _Token) *Block {
    if bb, ok := self.refs[id]; ok {
        return bb
    }

    /* create a placeholder, which becomes part of the layout once its label is seen */
    bb := &Block { Id: id, fn: self.fn }
    self.refs[id] = bb
    self.used[id] = tk
    return bb
}

func (self *_Parser) function() (*Func, error) {
    var err error
    var tk  _Token

    /* "func" "@" name */
    if _, err = self.expect(_T_ident, "func"); err != nil {
        return nil, err
    }
    if tk, err = self.expect(_T_global, ""); err != nil {
        return nil, err
    }

    /* reset the parser state */
    self.fn = NewFunc(tk.text)
    self.bb = nil
    self.refs = make(map[int]*Block)
    self.used = make(map[int]_Token)

    /* function properties */
    for self.tk.kind == _T_ident {
        p, ok := LookupProperty(self.tk.text)
        if !ok {
            return nil, self.errorf(self.tk, "unknown function property %s", self.tk)
        }
        self.fn.SetProperty(p)
        if err = self.advance(); err != nil {
            return nil, err
        }
    }

    /* function body */
    if _, err = self.expect(_T_punct, "{"); err != nil {
        return nil, err
    }

    /* parse until the closing brace */
    for {
        if self.skipEOL(); self.is(_T_punct, "}") {
            break
        } else if self.tk.kind == _T_eof {
            return nil, self.errorf(self.tk, "unterminated function @%s", self.fn.Name)
        } else if err = self.line(); err != nil {
            return nil, err
        }
    }

    /* all referenced blocks must be defined */
    for id, bb := range self.refs {
        if self.indexOfBlock(bb) < 0 {
            return nil, self.errorf(self.used[id], "undefined block %%bb.%d", id)
        }
    }

    /* build the CFG edges */
    self.fn.UpdateEdges()
    return self.fn, self.advance()
}

func (self *_Parser) indexOfBlock(bb *Block) int {
    for i, v := range self.fn.Blocks {
        if v == bb {
            return i
        }
    }
    return -1
}

func (self *_Parser) line() error {
    tk := self.tk

    /* block label */
    if tk.kind == _T_ident && strings.HasPrefix(tk.text, "bb.") {
        return self.label()
    }

    /* instructions must be inside a block */
    if self.bb == nil {
        return self.errorf(tk, "instruction outside of any block")
    }

    /* parse the instruction */
    mi, err := self.instr()
    if err != nil {
        return err
    }

    /* instructions are terminated by newlines */
    if self.tk.kind != _T_eol && self.tk.kind != _T_eof {
        return self.errorf(self.tk, "unexpected %s after instruction", self.tk)
    }

    /* add to the current block */
    self.bb.Append(mi)
    return nil
}

func (self *_Parser) label() error {
    tk := self.tk
    id, err := strconv.Atoi(tk.text[3:])

    /* block IDs are non-negative integers */
    if err != nil || id < 0 {
        return self.errorf(tk, "invalid block label %s", tk)
    }

    /* the block must not be defined twice */
    bb := self.block(id, tk)
    if self.indexOfBlock(bb) >= 0 {
        return self.errorf(tk, "block bb.%d redefined", id)
    }

    /* add to the layout */
    self.bb = bb
    self.fn.Blocks = append(self.fn.Blocks, bb)
    if err = self.advance(); err != nil {
        return err
    }

    /* ":" */
    _, err = self.expect(_T_punct, ":")
    return err
}

func (self *_Parser) typed(r Reg, tk _Token) error {
    if _, err := self.expect(_T_punct, "("); err != nil {
        return err
    }

    /* parse the type */
    tt := self.tk
    ty, ok := ParseLLT(tt.text)
    if tt.kind != _T_ident || !ok {
        return self.errorf(tt, "invalid type %s", tt)
    }

    /* check against previous occurrences */
    if old := self.fn.Regs.Type(r); old.IsValid() && old != ty {
        return self.errorf(tk, "register %%%d has type %s, previously %s", r.Index(), ty, old)
    } else {
        self.fn.Regs.SetType(r, ty)
    }

    /* ")" */
    if err := self.advance(); err != nil {
        return err
    }
    _, err := self.expect(_T_punct, ")")
    return err
}

func (self *_Parser) vreg(tk _Token) (Reg, error) {
    if i, err := strconv.Atoi(tk.text); err != nil || i < 0 || i >= _R_index {
        return NoReg, self.errorf(tk, "invalid virtual register %%%s", tk.text)
    } else if i > len(self.lx.src) {
        return NoReg, self.errorf(tk, "virtual register %%%d is out of range", i)
    } else {
        return self.fn.Regs.vreg(i), nil
    }
}

func (self *_Parser) def() (*Operand, error) {
    tk := self.tk
    if err := self.advance(); err != nil {
        return nil, err
    }

    /* physical registers carry no type */
    if tk.kind == _T_preg {
        return RegDef(self.fn.Regs.PhysReg(tk.text)), nil
    }

    /* virtual registers */
    r, err := self.vreg(tk)
    if err != nil {
        return nil, err
    }

    /* ":" "_" "(" type ")" */
    if _, err = self.expect(_T_punct, ":"); err != nil {
        return nil, err
    } else if _, err = self.expect(_T_ident, "_"); err != nil {
        return nil, err
    } else if err = self.typed(r, tk); err != nil {
        return nil, err
    } else {
        return RegDef(r), nil
    }
}

func (self *_Parser) instr() (*Instr, error) {
    var err error
    var ops []*Operand

    /* definitions */
    if self.tk.kind == _T_vreg || self.tk.kind == _T_preg {
        for {
            var op *Operand
            if op, err = self.def(); err != nil {
                return nil, err
            }
            if ops = append(ops, op); !self.is(_T_punct, ",") {
                break
            }
            if err = self.advance(); err != nil {
                return nil, err
            }
        }
        if _, err = self.expect(_T_punct, "="); err != nil {
            return nil, err
        }
    }

    /* opcode */
    tk, err := self.expect(_T_ident, "")
    if err != nil {
        return nil, err
    }

    /* look up the opcode */
    op, ok := LookupOpcode(tk.text)
    if !ok {
        return nil, self.errorf(tk, "unknown opcode %s", tk)
    }

    /* operands */
    for self.tk.kind != _T_eol && self.tk.kind != _T_eof && !self.is(_T_punct, "::") {
        var v *Operand
        if v, err = self.operand(); err != nil {
            return nil, err
        }
        if ops = append(ops, v); !self.is(_T_punct, ",") {
            break
        }
        if err = self.advance(); err != nil {
            return nil, err
        }
    }

    /* create the instruction */
    mi := NewInstr(op, ops...)
    if !self.is(_T_punct, "::") {
        return mi, nil
    }

    /* memory operand */
    if err = self.advance(); err != nil {
        return nil, err
    } else if mi.Mem, err = self.memop(); err != nil {
        return nil, err
    } else {
        return mi, nil
    }
}

func (self *_Parser) operand() (*Operand, error) {
    tk := self.tk
    if err := self.advance(); err != nil {
        return nil, err
    }

    /* check for operand kind */
    switch tk.kind {
        case _T_preg: {
            return RegUse(self.fn.Regs.PhysReg(tk.text)), nil
        }

        /* virtual registers, optionally typed */
        case _T_vreg: {
            r, err := self.vreg(tk)
            if err != nil {
                return nil, err
            }
            if self.is(_T_punct, "(") {
                if err = self.typed(r, tk); err != nil {
                    return nil, err
                }
            }
            return RegUse(r), nil
        }

        /* block references */
        case _T_bref: {
            if id, err := strconv.Atoi(tk.text); err != nil || id < 0 {
                return nil, self.errorf(tk, "invalid block reference %%bb.%s", tk.text)
            } else {
                return BlockRef(self.block(id, tk)), nil
            }
        }

        /* plain immediates */
        case _T_int: {
            if v, err := strconv.ParseInt(tk.text, 0, 64); err != nil {
                return nil, self.errorf(tk, "invalid immediate %s", tk)
            } else {
                return Imm(v), nil
            }
        }

        /* keywords */
        case _T_ident: {
            return self.keyword(tk)
        }

        /* everything else is an error */
        default: {
            return nil, self.errorf(tk, "unexpected %s", tk)
        }
    }
}

func (self *_Parser) keyword(tk _Token) (*Operand, error) {
    switch {
        case tk.text == "implicit": {
            rt := self.tk
            if err := self.advance(); err != nil {
                return nil, err
            } else if rt.kind == _T_preg {
                return ImplicitUse(self.fn.Regs.PhysReg(rt.text)), nil
            } else if rt.kind != _T_vreg {
                return nil, self.errorf(rt, "expected a register after \"implicit\", got %s", rt)
            } else if r, err := self.vreg(rt); err != nil {
                return nil, err
            } else {
                return ImplicitUse(r), nil
            }
        }

        /* intpred(cc) */
        case tk.text == "intpred": {
            if _, err := self.expect(_T_punct, "("); err != nil {
                return nil, err
            } else if cc, err := self.expect(_T_ident, ""); err != nil {
                return nil, err
            } else if _, err = self.expect(_T_punct, ")"); err != nil {
                return nil, err
            } else {
                return Predicate(cc.text), nil
            }
        }

        /* typed immediates such as "i32 5" */
        case len(tk.text) > 1 && tk.text[0] == 'i' && isdigit(tk.text[1]): {
            if vt, err := self.expect(_T_int, ""); err != nil {
                return nil, err
            } else if v, err := strconv.ParseInt(vt.text, 0, 64); err != nil {
                return nil, self.errorf(vt, "invalid immediate %s", vt)
            } else {
                return Imm(v), nil
            }
        }

        /* unknown keyword */
        default: {
            return nil, self.errorf(tk, "unexpected %s", tk)
        }
    }
}

func (self *_Parser) memop() (*MemOperand, error) {
    mem := new(MemOperand)
    if _, err := self.expect(_T_punct, "("); err != nil {
        return nil, err
    }

    /* optional "volatile" */
    if self.is(_T_ident, "volatile") {
        mem.Volatile = true
        if err := self.advance(); err != nil {
            return nil, err
        }
    }

    /* access kind */
    switch tk := self.tk; {
        case self.is(_T_ident, "load")  : mem.Store = false
        case self.is(_T_ident, "store") : mem.Store = true
        default                         : return nil, self.errorf(tk, "expected \"load\" or \"store\", got %s", tk)
    }

    /* access size */
    if err := self.advance(); err != nil {
        return nil, err
    } else if st, err := self.expect(_T_int, ""); err != nil {
        return nil, err
    } else if mem.Size, err = strconv.ParseUint(st.text, 0, 64); err != nil || mem.Size == 0 {
        return nil, self.errorf(st, "invalid access size %s", st)
    }

    /* ")" */
    _, err := self.expect(_T_punct, ")")
    return mem, err
}
