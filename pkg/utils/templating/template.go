// Package templating implements the {placeholder} expansion used to turn
// roster columns into project paths, file names and output rows.
package templating

import (
	"strings"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Expand substitutes {name} placeholders in tmpl with matching entries of
// values. Doubled braces ({{ and }}) produce literal braces. Placeholder
// names may contain dots (e.g. {commit.sha}) so that computed values can
// live next to plain roster columns. The expansion is strict: an unknown
// name or an unbalanced brace is an error, never silently dropped.
func Expand(tmpl string, values map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				out.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", goerr.New("unbalanced '{' in template",
					goerr.T(types.ErrTagTemplate),
					goerr.V("template", tmpl),
					goerr.V("position", i))
			}
			name := tmpl[i+1 : i+end]
			if name == "" || strings.ContainsAny(name, "{} ") {
				return "", goerr.New("invalid placeholder in template",
					goerr.T(types.ErrTagTemplate),
					goerr.V("template", tmpl),
					goerr.V("placeholder", name))
			}
			value, ok := values[name]
			if !ok {
				return "", goerr.New("unknown placeholder in template",
					goerr.T(types.ErrTagTemplate),
					goerr.V("template", tmpl),
					goerr.V("placeholder", name))
			}
			out.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				out.WriteByte('}')
				i += 2
				continue
			}
			return "", goerr.New("unbalanced '}' in template",
				goerr.T(types.ErrTagTemplate),
				goerr.V("template", tmpl),
				goerr.V("position", i))
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}
