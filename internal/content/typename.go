package content

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeName is a parsed runtime type name with its generic arguments.
// Assembly qualification is dropped.
type TypeName struct {
	Name  string
	Args  []TypeName
	Array bool
}

// ParseTypeName parses names such as
//
//	Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32, mscorlib, Version=4.0.0.0]]
func ParseTypeName(s string) (TypeName, error) {
	p := &typeNameParser{s: s}
	tn, err := p.parse()
	if err != nil {
		return TypeName{}, err
	}
	p.skipAssembly()
	if p.i != len(p.s) {
		return TypeName{}, fmt.Errorf("%w: trailing %q in %q", ErrBadTypeName, p.s[p.i:], s)
	}
	return tn, nil
}

// Short is the unqualified name, e.g. "ListReader`1".
func (t TypeName) Short() string {
	name := t.Name
	if i := strings.LastIndexAny(name, ".+"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (t TypeName) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('[')
			b.WriteString(a.String())
			b.WriteByte(']')
		}
		b.WriteByte(']')
	}
	if t.Array {
		b.WriteString("[]")
	}
	return b.String()
}

// arity returns the generic arity encoded in the name, e.g. 2 for
// "Dictionary`2".
func (t TypeName) arity() int {
	i := strings.LastIndexByte(t.Name, '`')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(t.Name[i+1:])
	if err != nil {
		return 0
	}
	return n
}

type typeNameParser struct {
	s string
	i int
}

func (p *typeNameParser) parse() (TypeName, error) {
	p.space()
	start := p.i
	for p.i < len(p.s) && !strings.ContainsRune("[],", rune(p.s[p.i])) {
		p.i++
	}
	tn := TypeName{Name: strings.TrimSpace(p.s[start:p.i])}
	if tn.Name == "" {
		return TypeName{}, fmt.Errorf("%w: empty name at %d in %q", ErrBadTypeName, start, p.s)
	}

	if strings.HasPrefix(p.s[p.i:], "[[") {
		p.i++
		for {
			if !p.eat('[') {
				return TypeName{}, p.fail("expected '['")
			}
			arg, err := p.parse()
			if err != nil {
				return TypeName{}, err
			}
			p.skipAssembly()
			if !p.eat(']') {
				return TypeName{}, p.fail("expected ']'")
			}
			tn.Args = append(tn.Args, arg)
			if p.eat(',') {
				continue
			}
			if p.eat(']') {
				break
			}
			return TypeName{}, p.fail("expected ',' or ']'")
		}
		if n := tn.arity(); n != len(tn.Args) {
			return TypeName{}, fmt.Errorf("%w: %s declares %d arguments, has %d", ErrBadTypeName, tn.Name, n, len(tn.Args))
		}
	}
	if strings.HasPrefix(p.s[p.i:], "[]") {
		p.i += 2
		tn.Array = true
	}
	return tn, nil
}

// skipAssembly consumes ", Assembly, Version=..." up to the bracket that
// closes the current argument.
func (p *typeNameParser) skipAssembly() {
	p.space()
	if p.i >= len(p.s) || p.s[p.i] != ',' {
		return
	}
	depth := 0
	for ; p.i < len(p.s); p.i++ {
		switch p.s[p.i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

func (p *typeNameParser) eat(c byte) bool {
	p.space()
	if p.i < len(p.s) && p.s[p.i] == c {
		p.i++
		return true
	}
	return false
}

func (p *typeNameParser) space() {
	for p.i < len(p.s) && p.s[p.i] == ' ' {
		p.i++
	}
}

func (p *typeNameParser) fail(msg string) error {
	return fmt.Errorf("%w: %s at %d in %q", ErrBadTypeName, msg, p.i, p.s)
}
