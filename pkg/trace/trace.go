// Package trace is the counterexample reconstructor: given a SAT-confirmed
// Equation and the Model that made it satisfiable, it builds an ordered
// sequence of concrete steps with values extracted from the model, and
// renders that trace in exactly one of the three UI languages.
package trace

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
)

// StepView is one concrete step of a reconstructed counterexample.
type StepView struct {
	Kind     ssa.Kind
	Location ssa.SourceLocation
	Comment  string
	Values   map[string]bool
}

func (v StepView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", v.Kind, v.Location)
	if v.Comment != "" {
		fmt.Fprintf(&b, " (%s)", v.Comment)
	}
	if len(v.Values) > 0 {
		fmt.Fprint(&b, ":")
		for name, val := range v.Values {
			fmt.Fprintf(&b, " %s=%t", name, val)
		}
	}
	return b.String()
}

// Trace is the reconstructed counterexample.
type Trace struct {
	Steps        []StepView
	MetadataFile string
}

// Build walks eq in order and extracts, for every live step, the values the
// model assigned to the atoms its condition mentions.
func Build(eq *ssa.Equation, model solverapi.Model, metadataFile string) *Trace {
	t := &Trace{MetadataFile: metadataFile}
	for _, s := range eq.Steps() {
		view := StepView{Kind: s.Kind(), Location: s.Location, Comment: s.Comment}
		if s.Condition != nil {
			values := map[string]bool{}
			s.Condition.Walk(func(a ssa.Atom) {
				values[string(a)] = model.Value(a)
			})
			view.Values = values
		}
		t.Steps = append(t.Steps, view)
	}
	return t
}

// Render writes t to w in the chosen UI language. Exactly one rendering is
// produced per call.
func Render(w io.Writer, t *Trace, ui bmcoptions.UILanguage) error {
	switch ui {
	case bmcoptions.OldGUI:
		return renderOldGUI(w, t)
	case bmcoptions.XMLUI:
		return renderXML(w, t)
	default:
		return renderPlain(w, t)
	}
}

func renderPlain(w io.Writer, t *Trace) error {
	fmt.Fprintln(w, "Counterexample:")
	for i, s := range t.Steps {
		fmt.Fprintf(w, "State %d: %s\n", i+1, s)
	}
	return nil
}

func renderOldGUI(w io.Writer, t *Trace) error {
	for _, s := range t.Steps {
		fmt.Fprintln(w, s.String())
		fmt.Fprintln(w)
	}
	return nil
}

type xmlStep struct {
	Kind     string `xml:"kind,attr"`
	Location string `xml:"location,attr"`
	Comment  string `xml:"comment,attr,omitempty"`
}

type xmlTrace struct {
	XMLName  xml.Name  `xml:"goto-trace"`
	Metadata string    `xml:"metadata,attr,omitempty"`
	Steps    []xmlStep `xml:"step"`
}

func renderXML(w io.Writer, t *Trace) error {
	doc := xmlTrace{Metadata: t.MetadataFile}
	for _, s := range t.Steps {
		doc.Steps = append(doc.Steps, xmlStep{
			Kind:     s.Kind.String(),
			Location: s.Location.String(),
			Comment:  s.Comment,
		})
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("trace: encode xml: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}
