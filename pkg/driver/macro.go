package driver

import (
	"fmt"
	"strings"

	"github.com/gcnasm/gcnasm/pkg/filter"
	"github.com/gcnasm/gcnasm/pkg/source"
)

// macroParam is one `.macro` header parameter: a bare name, `name=default`,
// `name:req`, or the trailing `name:vararg` that captures every remaining
// comma-separated argument joined back together (§4.1's parameter model).
type macroParam struct {
	Name       string
	HasDefault bool
	Default    string
	Required   bool
	Vararg     bool
}

type macroDef struct {
	Name   string
	Params []macroParam
	Body   filter.MacroBody
}

func (d *Driver) resetCapture() {
	d.capturing = captureNone
	d.captureDepth = 0
	d.captureName = ""
	d.captureParams = nil
	d.captureLines = nil
	d.captureCols = nil
	d.captureCount = 0
}

func (d *Driver) beginMacro(header string, pos source.Position) {
	name, params, err := parseMacroHeader(header)
	if err != nil {
		d.errorf(pos, "%v", err)
		return
	}
	if _, exists := d.macros[name]; exists {
		d.errorf(pos, "macro %q already defined", name)
	}
	d.capturing = captureMacro
	d.captureDepth = 1
	d.captureName = name
	d.captureParams = params
	d.captureDecl = pos
	d.captureLines = nil
	d.captureCols = nil
}

func (d *Driver) beginRepeat(header string, pos source.Position) {
	n, err := d.evalImmediate(header, pos)
	if err != nil {
		d.errorf(pos, "bad .rept count: %v", err)
		return
	}
	if n < 0 {
		n = 0
	}
	d.capturing = captureRepeat
	d.captureDepth = 1
	d.captureCount = int(n)
	d.captureDecl = pos
	d.captureLines = nil
	d.captureCols = nil
}

// handleCaptureLine buffers one raw line during `.macro`/`.rept` capture,
// tracking same-directive nesting depth so an inner `.rept`/`.macro` inside
// the block doesn't end the capture early.
func (d *Driver) handleCaptureLine(line filter.Line) {
	trimmed := strings.TrimSpace(line.Text)
	switch d.capturing {
	case captureMacro:
		switch {
		case trimmed == ".endm" || strings.HasPrefix(trimmed, ".endm "):
			d.captureDepth--
			if d.captureDepth == 0 {
				d.finishMacro()
				return
			}
		case trimmed == ".macro" || strings.HasPrefix(trimmed, ".macro "):
			d.captureDepth++
		}
	case captureRepeat:
		switch {
		case trimmed == ".endr":
			d.captureDepth--
			if d.captureDepth == 0 {
				d.finishRepeat()
				return
			}
		case trimmed == ".rept" || strings.HasPrefix(trimmed, ".rept "):
			d.captureDepth++
		}
	}
	d.captureLines = append(d.captureLines, line.Text)
	d.captureCols = append(d.captureCols, line.Columns)
}

func (d *Driver) finishMacro() {
	d.macros[d.captureName] = &macroDef{
		Name:   d.captureName,
		Params: d.captureParams,
		Body: filter.MacroBody{
			Lines:   d.captureLines,
			Columns: d.captureCols,
			DeclPos: d.captureDecl,
		},
	}
	d.resetCapture()
}

func (d *Driver) finishRepeat() {
	rf := filter.NewRepeatFilter(".rept", d.captureLines, d.captureCols, d.captureDecl, d.captureCount)
	d.Filters.Push(rf)
	d.resetCapture()
}

// applyMacro binds argText's actuals to m's formals and pushes a
// filter.MacroFilter that replays the recorded body with substitution.
func (d *Driver) applyMacro(m *macroDef, argText string, pos source.Position) {
	args, err := bindMacroArgs(argText, m.Params)
	if err != nil {
		d.errorf(pos, "%s: %v", m.Name, err)
		return
	}
	mf := filter.NewMacroFilter(m.Name, m.Body, args, pos.Macro)
	d.Filters.Push(mf)
}

func parseMacroHeader(header string) (string, []macroParam, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil, fmt.Errorf(".macro requires a name")
	}
	fields := splitMacroHeaderFields(header)
	name := fields[0]
	var params []macroParam
	rest := fields[1:]
	for i, f := range rest {
		p, err := parseMacroParam(f)
		if err != nil {
			return "", nil, err
		}
		if p.Vararg && i != len(rest)-1 {
			return "", nil, fmt.Errorf("vararg parameter %q must be the last parameter", p.Name)
		}
		params = append(params, p)
	}
	return name, params, nil
}

// splitMacroHeaderFields splits ".macro name p1, p2=v2" into ["name", "p1",
// "p2=v2"], tolerating either comma- or space-separated parameter lists.
func splitMacroHeaderFields(header string) []string {
	sp := strings.IndexByte(header, ' ')
	if sp < 0 {
		return []string{header}
	}
	name := header[:sp]
	rest := strings.ReplaceAll(strings.TrimSpace(header[sp+1:]), ",", " ")
	fields := strings.Fields(rest)
	return append([]string{name}, fields...)
}

func parseMacroParam(f string) (macroParam, error) {
	switch {
	case strings.HasSuffix(f, ":vararg"):
		return macroParam{Name: strings.TrimSuffix(f, ":vararg"), Vararg: true}, nil
	case strings.HasSuffix(f, ":req"):
		return macroParam{Name: strings.TrimSuffix(f, ":req"), Required: true}, nil
	default:
		if idx := strings.IndexByte(f, '='); idx >= 0 {
			return macroParam{Name: f[:idx], Default: f[idx+1:], HasDefault: true}, nil
		}
		return macroParam{Name: f}, nil
	}
}

// bindMacroArgs positionally binds argText's comma-separated actuals to
// params, applying defaults and vararg-tail joining (§4.1).
func bindMacroArgs(argText string, params []macroParam) (map[string]string, error) {
	raw := splitTopLevelCommas(argText)
	args := make(map[string]string, len(params))
	for i, p := range params {
		switch {
		case p.Vararg:
			if i < len(raw) {
				var tail []string
				for _, s := range raw[i:] {
					tail = append(tail, strings.TrimSpace(s))
				}
				args[p.Name] = strings.Join(tail, ",")
			} else if p.HasDefault {
				args[p.Name] = p.Default
			}
		case i < len(raw):
			args[p.Name] = strings.TrimSpace(raw[i])
		case p.HasDefault:
			args[p.Name] = p.Default
		case p.Required:
			return nil, fmt.Errorf("missing required parameter %q", p.Name)
		default:
			args[p.Name] = ""
		}
	}
	if len(params) == 0 || !params[len(params)-1].Vararg {
		if len(raw) > len(params) {
			return nil, fmt.Errorf("too many arguments: got %d, want %d", len(raw), len(params))
		}
	}
	return args, nil
}

func splitTopLevelCommas(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
