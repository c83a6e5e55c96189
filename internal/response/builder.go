// Package response turns a selected stub (or the lack of one) into a
// host Decision: it applies fault/delay effects, materializes or
// renders the body, resolves the Content-Type, and decorates the
// reply with its tags and metadata. It is a standalone builder rather
// than a set of methods on the agent so it can be tested without the
// lifecycle and counter plumbing around it.
package response

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"mockagent/internal/config"
	"mockagent/internal/hostproto"
	"mockagent/internal/matcher"
	"mockagent/internal/template"
)

// Builder synthesizes Decisions from stubs and the catalog's global
// settings and default_response.
type Builder struct {
	log             *zap.Logger
	settings        config.GlobalSettings
	defaultResponse *config.ResponseDef
}

// NewBuilder constructs a Builder bound to a catalog's global settings
// and optional default_response.
func NewBuilder(log *zap.Logger, settings config.GlobalSettings, defaultResponse *config.ResponseDef) *Builder {
	return &Builder{log: log, settings: settings, defaultResponse: defaultResponse}
}

// BuildStub synthesizes the reply for a matched, non-exhausted stub.
// It returns an error only when the call was cancelled mid-sleep; the
// caller must then emit no reply at all rather than treat it as a
// fault.
func (b *Builder) BuildStub(ctx context.Context, stub *config.StubDefinition, matchCtx *matcher.MatchContext, req hostproto.Request) (hostproto.Decision, error) {
	if stub.Fault != nil {
		dec, fallthrough_, err := b.runFault(ctx, stub)
		if err != nil {
			return hostproto.Decision{}, err
		}
		if !fallthrough_ {
			return dec, nil
		}
	} else if stub.Delay != nil {
		if err := sleepCancellable(ctx, resolveDelay(stub.Delay)); err != nil {
			return hostproto.Decision{}, err
		}
	}

	return b.buildNormal(stub, matchCtx, req)
}

func (b *Builder) buildNormal(stub *config.StubDefinition, matchCtx *matcher.MatchContext, req hostproto.Request) (hostproto.Decision, error) {
	resp := &stub.Response

	bodyBytes, err := b.buildBody(resp, matchCtx, req)
	if err != nil {
		b.log.Debug("template render failed, falling back to static body",
			zap.String("stub_id", stub.ID), zap.Error(err))
		bodyBytes, _ = materializeStatic(resp.Body)
	}

	contentType := resolveContentType(resp.Headers, resp.Body, b.settings.DefaultContentType)

	dec := hostproto.BlockDecision(resp.EffectiveStatus()).
		WithHeader("Content-Type", contentType).
		WithTag("mocked").
		WithMetadata("stub_id", stub.ID)

	for name, value := range resp.Headers {
		if strings.EqualFold(name, "content-type") {
			continue
		}
		dec = dec.WithHeader(name, value)
	}

	if bodyBytes != nil {
		dec = dec.WithBody(bodyBytes)
	}

	return dec, nil
}

// buildBody materializes a response body, rendering it through the
// template engine first when the stub requests it.
func (b *Builder) buildBody(resp *config.ResponseDef, matchCtx *matcher.MatchContext, req hostproto.Request) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	if !resp.Template {
		return materializeStatic(resp.Body)
	}

	tctx := &template.Context{
		PathParams:  matchCtx.PathParams,
		QueryParams: matchCtx.QueryParams,
		Captures:    matchCtx.Captures,
		Headers:     hostproto.FlattenHeaders(req.Headers),
		Method:      req.Method,
		RequestPath: req.Path,
		Body:        req.Body,
	}

	switch resp.Body.Type {
	case "text":
		s, _ := resp.Body.Content.(string)
		rendered, err := template.Render(s, tctx)
		if err != nil {
			return nil, err
		}
		return []byte(rendered), nil
	case "json":
		rendered, err := template.RenderJSON(resp.Body.Content, tctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(rendered)
	default:
		return materializeStatic(resp.Body)
	}
}

// BuildDefault synthesizes the reply for an unmatched (or cap-exhausted)
// request when passthrough is not in effect: the catalog's
// default_response if configured, else a 404 not_found fallback.
func (b *Builder) BuildDefault() hostproto.Decision {
	if b.defaultResponse == nil {
		return hostproto.BlockDecision(404).
			WithHeader("Content-Type", "application/json").
			WithTag("mocked").
			WithTag("not_found").
			WithBody([]byte(`{"error":"not_found","message":"No matching stub found"}`))
	}

	resp := b.defaultResponse
	bodyBytes, _ := materializeStatic(resp.Body)
	contentType := resolveContentType(resp.Headers, resp.Body, b.settings.DefaultContentType)

	dec := hostproto.BlockDecision(resp.EffectiveStatus()).
		WithHeader("Content-Type", contentType).
		WithTag("mocked").
		WithTag("default_response")

	for name, value := range resp.Headers {
		if strings.EqualFold(name, "content-type") {
			continue
		}
		dec = dec.WithHeader(name, value)
	}
	if bodyBytes != nil {
		dec = dec.WithBody(bodyBytes)
	}
	return dec
}

// resolveContentType picks the first of: the stub's own Content-Type
// header (case-insensitive), the body variant's implied type, or the
// catalog-wide default.
func resolveContentType(headers map[string]string, body *config.ResponseBody, defaultContentType string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "content-type") {
			return value
		}
	}
	if body != nil {
		return body.ContentType()
	}
	return defaultContentType
}
