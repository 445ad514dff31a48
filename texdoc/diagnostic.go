package texdoc

import (
	"fmt"
	"strings"
)

// Severity of a diagnostic.
type Severity uint32

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Diagnostic is a recoverable problem found during a conversion. The
// conversion goes on with a placeholder for the offending construct.
type Diagnostic struct {
	Filename string
	Severity Severity
	Msg      string
	Fields   []any // alternating keys and values
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Filename, d.Severity, d.Msg)
	for i := 0; i+1 < len(d.Fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", d.Fields[i], d.Fields[i+1])
	}
	return b.String()
}

// AddDiagnostic records a diagnostic and logs it.
func (c *Converter) AddDiagnostic(sev Severity, msg string, keysAndValues ...any) {
	c.diagnostics = append(c.diagnostics, &Diagnostic{
		Filename: c.fileName,
		Severity: sev,
		Msg:      msg,
		Fields:   keysAndValues,
	})
	kv := append([]any{"file", c.fileName}, keysAndValues...)
	if sev == SeverityWarning {
		c.log.Warnw(msg, kv...)
	} else {
		c.log.Infow(msg, kv...)
	}
}

func (c *Converter) warn(msg string, keysAndValues ...any) {
	c.AddDiagnostic(SeverityWarning, msg, keysAndValues...)
}

func (c *Converter) info(msg string, keysAndValues ...any) {
	c.AddDiagnostic(SeverityInfo, msg, keysAndValues...)
}

// Diagnostics returns the diagnostics of the last conversion.
func (c *Converter) Diagnostics() []*Diagnostic {
	return c.diagnostics
}

// Warnings returns only the diagnostics with warning severity.
func (c *Converter) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range c.diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}
