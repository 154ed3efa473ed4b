package depinfo

import (
	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
)

// parseMakefile decodes the make-rule dependency encoding:
//
//	out.o: in.c include/a.h \
//	  include/b.h
//
// Backslash-newline continues a rule onto the next line, and
// backslash-space escapes a space inside a path. Inputs are every token
// after a rule's colon; the rule's targets are excluded from the result.
func parseMakefile(data []byte) ([]string, error) {
	var (
		current  []byte   // token being accumulated
		pending  []string // tokens before the colon of the current rule
		tokens   []string // tokens after the colon of the current rule
		sawColon bool
		targets  = make(map[string]bool)
		inputs   []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		if sawColon {
			tokens = append(tokens, string(current))
		} else {
			pending = append(pending, string(current))
		}
		current = current[:0]
	}

	endRule := func() error {
		flush()
		if !sawColon && len(pending) > 0 {
			return zerr.With(domain.ErrDependencyInfoParse, "reason", "rule without colon")
		}
		inputs = append(inputs, tokens...)
		pending, tokens = nil, nil
		sawColon = false
		return nil
	}

	for i := 0; i < len(data); i++ {
		switch c := data[i]; c {
		case '\\':
			if i+1 >= len(data) {
				return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "trailing backslash")
			}
			switch next := data[i+1]; next {
			case '\n':
				// Line continuation: the rule keeps going.
				flush()
				i++
			case '\r':
				if i+2 >= len(data) || data[i+2] != '\n' {
					return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "bare carriage return")
				}
				flush()
				i += 2
			default:
				// Escaped character, most commonly a space in a path.
				current = append(current, next)
				i++
			}
		case ':':
			flush()
			if sawColon {
				return nil, zerr.With(domain.ErrDependencyInfoParse, "reason", "unexpected colon in inputs")
			}
			for _, target := range pending {
				targets[target] = true
			}
			pending = nil
			sawColon = true
		case ' ', '\t':
			flush()
		case '\n':
			if err := endRule(); err != nil {
				return nil, err
			}
		case '\r':
			// Consumed with the newline that follows it.
		default:
			current = append(current, c)
		}
	}
	if err := endRule(); err != nil {
		return nil, err
	}

	filtered := inputs[:0]
	for _, input := range inputs {
		if !targets[input] {
			filtered = append(filtered, input)
		}
	}
	return filtered, nil
}
