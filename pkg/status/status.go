// Package status is the structured status/verdict sink: status lines and
// verdict emission in one of three UI languages (PLAIN / OLD_GUI / XML_UI).
// Structured log fields always go to a logrus.FieldLogger, and the rendered
// verdict text always goes to its own io.Writer (normally os.Stdout), since
// the two audiences differ.
package status

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/opencorebmc/bmc/pkg/bmcoptions"
)

// Sink renders status lines and verdicts for one run.
type Sink struct {
	w   io.Writer
	log logrus.FieldLogger
	ui  bmcoptions.UILanguage
}

// New constructs a Sink writing rendered text to w and structured log
// fields to log.
func New(w io.Writer, log logrus.FieldLogger, ui bmcoptions.UILanguage) *Sink {
	return &Sink{w: w, log: log, ui: ui}
}

// Status emits an informational status line, e.g. "UW loop 2".
func (s *Sink) Status(msg string) {
	s.log.Info(msg)
	switch s.ui {
	case bmcoptions.XMLUI:
		s.writeXML("STATUS", msg)
	default:
		fmt.Fprintln(s.w, msg)
	}
}

// Error reports a collaborator failure or configuration error as an
// error-level event; it never suppresses a would-be counterexample by
// itself.
func (s *Sink) Error(msg string) {
	s.log.Error(msg)
	switch s.ui {
	case bmcoptions.XMLUI:
		s.writeXML("ERROR", msg)
	default:
		fmt.Fprintln(s.w, "ERROR: "+msg)
	}
}

// VerificationSuccessful renders the success verdict: an UNSAT result outside
// the base case, or an equation with no remaining claims.
func (s *Sink) VerificationSuccessful() {
	s.verdict(true, "VERIFICATION SUCCESSFUL")
}

// VerificationFailed renders the SAT/bug-found verdict.
func (s *Sink) VerificationFailed() {
	s.verdict(false, "VERIFICATION FAILED")
}

// DecisionProcedureFailed reports the "decision procedure failed" error
// verdict, e.g. when a backend reports solverapi.ERROR.
func (s *Sink) DecisionProcedureFailed() {
	s.Error("decision procedure failed")
}

func (s *Sink) verdict(success bool, text string) {
	s.log.WithField("success", success).Info(text)
	switch s.ui {
	case bmcoptions.OldGUI:
		if success {
			fmt.Fprintln(s.w, "SUCCESS")
		} else {
			fmt.Fprintln(s.w)
		}
	case bmcoptions.XMLUI:
		payload := "FAILURE"
		if success {
			payload = "SUCCESS"
		}
		s.writeXML("cprover-status", payload)
	default:
		fmt.Fprintln(s.w, text)
	}
}

type cproverStatus struct {
	XMLName xml.Name `xml:"cprover-status"`
	Kind    string   `xml:"kind,attr,omitempty"`
	Payload string   `xml:",chardata"`
}

func (s *Sink) writeXML(kind, payload string) {
	doc := cproverStatus{Kind: kind, Payload: payload}
	enc := xml.NewEncoder(s.w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		s.log.WithError(err).Error("status: failed to encode XML status")
		return
	}
	fmt.Fprintln(s.w)
}
