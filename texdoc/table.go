package texdoc

import "strings"

var tabularEnvironments = []string{"tabular", "tabular*", "tabularx", "tabulary", "longtable", "longtable*", "supertabular", "xtabular"}

// widthTabulars take the table width before the column spec.
var widthTabulars = map[string]bool{"tabular*": true, "tabularx": true, "tabulary": true}

// rowDirectives are rules and markers that can start a row.
var rowDirectives = map[string]int{ // command name to number of brace arguments
	"hline": 0, "cline": 1, "toprule": 0, "midrule": 0, "bottomrule": 0,
	"cmidrule": 1, "addlinespace": 0, "endhead": 0, "endfirsthead": 0,
	"endfoot": 0, "endlastfoot": 0, "centering": 0, "noalign": 1,
	"rowcolor": 1, "hdashline": 0, "specialrule": 3,
}

// tableFloat parses a table float. Its rows come from the first tabular
// inside it; its caption and label are looked up outside that tabular.
func (c *Converter) tableFloat(env, content string) *Table {
	t := &Table{Environment: env, Rows: []*TableRow{}}
	outside := content
	if name, start, inner, end, ok := findFirstEnvironment(content, tabularEnvironments); ok {
		nested := c.tabular(name, inner)
		t.ColumnSpec, t.Rows = nested.ColumnSpec, nested.Rows
		outside = content[:start] + content[end:]
	}
	if caption, _, _, ok := findCommandArg(outside, "caption"); ok {
		t.Caption = trimRuns(c.ParseInline(normalizeSpace(caption), Formatting{}))
	}
	if label, _, _, ok := findCommandArg(outside, "label"); ok {
		t.Label = strings.TrimSpace(label)
	}
	return t
}

// tabular parses a tabular-like environment given its content.
func (c *Converter) tabular(env, content string) *Table {
	t := &Table{Environment: env}
	j := 0
	if widthTabulars[env] {
		if _, k, ok := readArg(content, j); ok {
			j = k
		}
	}
	if _, k, ok := readOptionalArg(content, j); ok {
		j = k
	}
	if spec, k, ok := readArg(content, j); ok && strings.HasPrefix(strings.TrimSpace(content[j:]), "{") {
		t.ColumnSpec = strings.TrimSpace(spec)
		j = k
	}
	body := content[j:]

	if strings.HasPrefix(env, "longtable") {
		body = c.longtableCaption(t, body)
	}

	body = strings.ReplaceAll(body, `\tabularnewline`, `\\`)
	for _, raw := range splitTopLevel(body, `\\`) {
		row := stripRowDirectives(raw)
		if row == "" {
			continue
		}
		var cells [][]Run
		blank := true
		for _, cell := range splitTopLevel(row, "&") {
			runs := trimRuns(c.ParseInline(normalizeSpace(unwrapSpanning(cell)), Formatting{}))
			if runs == nil {
				runs = []Run{}
			}
			if !isBlankRuns(runs) {
				blank = false
			}
			cells = append(cells, runs)
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, &TableRow{Cells: cells})
	}
	if t.Rows == nil {
		t.Rows = []*TableRow{}
	}
	return t
}

// longtableCaption moves the caption and label of a longtable into t and
// returns the body without them.
func (c *Converter) longtableCaption(t *Table, body string) string {
	if caption, start, end, ok := findCommandArg(body, "caption"); ok {
		t.Caption = trimRuns(c.ParseInline(normalizeSpace(caption), Formatting{}))
		body = body[:start] + body[end:]
	}
	if label, start, end, ok := findCommandArg(body, "label"); ok {
		t.Label = strings.TrimSpace(label)
		body = body[:start] + body[end:]
	}
	return body
}

// stripRowDirectives removes the spacing argument of the previous \\ and the
// rules written at the start of a row.
func stripRowDirectives(row string) string {
	for {
		row = strings.TrimSpace(row)
		if strings.HasPrefix(row, "*") {
			row = row[1:]
			continue
		}
		if _, k, ok := readOptional(row, 0); ok {
			row = row[k:]
			continue
		}
		if !strings.HasPrefix(row, `\`) {
			return row
		}
		name, next := readControlWord(row, 0)
		args, ok := rowDirectives[name]
		if !ok {
			return row
		}
		j := next
		if _, k, ok := readOptional(row, j); ok {
			j = k
		}
		if j < len(row) && row[j] == '(' {
			if e := strings.IndexByte(row[j:], ')'); e >= 0 {
				j += e + 1
			}
		}
		for n := 0; n < args; n++ {
			if _, k, ok := readArg(row, j); ok {
				j = k
			}
		}
		row = row[j:]
	}
}

// unwrapSpanning replaces \multicolumn and \multirow by their text argument.
func unwrapSpanning(cell string) string {
	trimmed := strings.TrimSpace(cell)
	name, next := readControlWord(trimmed, 0)
	switch name {
	case "multicolumn":
		j := next
		for n := 0; n < 2; n++ {
			_, k, ok := readArg(trimmed, j)
			if !ok {
				return cell
			}
			j = k
		}
		if text, k, ok := readArg(trimmed, j); ok {
			return unwrapSpanning(text) + trimmed[k:]
		}
	case "multirow":
		j := next
		if _, k, ok := readOptionalArg(trimmed, j); ok {
			j = k
		}
		if _, k, ok := readArg(trimmed, j); ok {
			j = k
		}
		if _, k, ok := readOptionalArg(trimmed, j); ok {
			j = k
		}
		if _, k, ok := readArg(trimmed, j); ok {
			j = k
		}
		if _, k, ok := readOptionalArg(trimmed, j); ok {
			j = k
		}
		if text, k, ok := readArg(trimmed, j); ok {
			return text + trimmed[k:]
		}
	}
	return cell
}
