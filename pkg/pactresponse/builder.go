package pactresponse

import (
	"net/http"
	"strings"

	"github.com/pact-foundation/pact-mockserver/pkg/pact"
)

// Response is the wire-ready HTTP response built from a selected
// interaction, after any generators have run.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Build renders interaction's expected response into a Response, applying
// any header/body/status generators against ctx. The result is a fresh
// value each call: generators like RandomInt and Uuid are expected to
// produce a different value per request.
func Build(interaction *pact.Interaction, ctx GeneratorContext) (Response, error) {
	resp := interaction.Response
	gens := resp.Generators
	mergedState := ctx.ProviderState
	if mergedState == nil {
		mergedState = mergeProviderStateParams(interaction.ProviderStates)
		ctx.ProviderState = mergedState
	}

	status := resp.StatusCode
	if gens.Status != nil {
		v, err := generateValue(*gens.Status, ctx)
		if err != nil {
			return Response{}, err
		}
		if n, ok := v.(int64); ok {
			status = int(n)
		}
	}

	headers, err := applyHeaderGenerators(resp.Headers, gens.Header, ctx)
	if err != nil {
		return Response{}, err
	}

	body := resp.Body.Content
	if resp.Body.State == pact.BodyPresent && isJSONBody(resp.Body.ContentType) {
		body, err = applyBodyGenerators(body, gens.Body, ctx)
		if err != nil {
			return Response{}, err
		}
	}

	header := make(http.Header, len(headers)+1)
	for _, h := range headers {
		for _, v := range h.Values {
			header.Add(h.Name, v)
		}
	}
	if header.Get("Content-Type") == "" && resp.Body.ContentType != "" {
		header.Set("Content-Type", resp.Body.ContentType)
	}

	return Response{StatusCode: status, Header: header, Body: body}, nil
}

func isJSONBody(contentType string) bool {
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}
