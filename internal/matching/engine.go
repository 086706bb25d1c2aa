package matching

import (
	"io"
	"net/http"
	"net/url"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// compareOne builds the full Report for one interaction against one
// actual request. Method and path are checked first since they gate the
// PartialMatch/Unexpected boundary; query, header, and body mismatches are
// always collected in full (no short-circuiting) so a single report can
// describe everything that went wrong.
func compareOne(interaction *pact.Interaction, actual *ActualRequest) Report {
	req := interaction.Request

	methodOK, methodReason := matchMethod(req.MatchingRules.Method, req.Method, actual.Method)
	pathOK, pathReason := matchPath(req.MatchingRules.Path, req.Path, actual.Path)

	var mismatches []Mismatch
	if !methodOK {
		mismatches = append(mismatches, Mismatch{Field: "method", Rule: ruleNameOrEquality(req.MatchingRules.Method), Expected: req.Method, Actual: actual.Method, Reason: methodReason})
	}
	if !pathOK {
		mismatches = append(mismatches, Mismatch{Field: "path", Rule: ruleNameOrEquality(req.MatchingRules.Path), Expected: req.Path, Actual: actual.Path, Reason: pathReason})
	}

	if !methodOK || !pathOK {
		return Report{Classification: Unexpected, Mismatches: mismatches}
	}

	mismatches = append(mismatches, matchQuery(req.Query, req.MatchingRules.Query, actual.Query)...)
	mismatches = append(mismatches, matchHeader(req.Headers, req.MatchingRules.Header, actual.Headers)...)
	mismatches = append(mismatches, matchBody(req.Body, req.MatchingRules.Body, actual.Body)...)

	if len(mismatches) == 0 {
		return Report{Classification: FullMatch}
	}
	return Report{Classification: PartialMatch, Mismatches: mismatches}
}

func ruleNameOrEquality(g *pact.RuleGroup) string {
	if g == nil || len(g.Rules) == 0 {
		return "equality"
	}
	return g.Rules[0].Match
}

// ActualRequest is the subset of an incoming HTTP request that matching
// needs. Constructing it once up front (reading and buffering the body)
// lets the caller replay the same body against every interaction in the
// list without re-reading the network connection.
type ActualRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Headers     http.Header
	ContentType string
	Body        []byte
}

// NewActualRequest reads r's body fully (so it can be compared against
// every candidate interaction) and captures its method, path, query, and
// headers.
func NewActualRequest(r *http.Request) (*ActualRequest, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	return &ActualRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		Headers:     r.Header.Clone(),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// MatchRequest compares actual against every interaction in order and
// selects the best candidate: the first FullMatch found wins outright; in
// its absence, the PartialMatch with the fewest mismatches wins, ties
// broken by lowest index; if nothing reaches even a method+path match, the
// outcome's Index is -1 and its report is the first interaction's
// Unexpected report (a generic empty one if the list is empty), since the
// request didn't resemble any of them.
func MatchRequest(interactions []*pact.Interaction, actual *ActualRequest) Outcome {
	best := Outcome{Index: -1, Report: Report{Classification: Unexpected}}
	haveUnexpected := false
	bestMismatches := -1

	for i, interaction := range interactions {
		report := compareOne(interaction, actual)

		switch report.Classification {
		case FullMatch:
			return Outcome{Index: i, Report: report}
		case PartialMatch:
			if best.Report.Classification != PartialMatch || len(report.Mismatches) < bestMismatches {
				best = Outcome{Index: i, Report: report}
				bestMismatches = len(report.Mismatches)
			}
		case Unexpected:
			if !haveUnexpected && best.Report.Classification == Unexpected {
				best = Outcome{Index: -1, Report: report}
				haveUnexpected = true
			}
		}
	}

	return best
}
