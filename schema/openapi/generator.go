package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// Generate builds an OpenAPI document describing the option records of
// registry: one component per scope and an Options component combining them,
// used as the request body of a single operation.
func Generate(registry *schema.Registry, opts ...GeneratorOption) (map[string]any, error) {
	if registry == nil {
		return nil, fmt.Errorf("openapi: registry cannot be nil")
	}
	cfg := defaults()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	scopes, err := selectedScopes(cfg.scopes)
	if err != nil {
		return nil, err
	}

	schemas := map[string]any{}
	refs := make([]any, 0, len(scopes))
	for _, scope := range scopes {
		name := componentNames[scope]
		schemas[name] = recordSchema(scope, registry.FieldsFor(scope))
		refs = append(refs, map[string]any{"$ref": componentRef(name)})
	}
	schemas[rootComponent] = map[string]any{"allOf": refs}

	document := map[string]any{
		"openapi": cfg.version,
		"info":    buildInfo(cfg.info),
		"paths":   buildPaths(cfg),
		"components": map[string]any{
			"schemas": schemas,
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func selectedScopes(names []string) ([]layering.OptionScope, error) {
	if len(names) == 0 {
		return append([]layering.OptionScope(nil), layering.Scopes...), nil
	}
	seen := map[layering.OptionScope]bool{}
	out := make([]layering.OptionScope, 0, len(names))
	for _, name := range names {
		scope := layering.ParseOptionScope(name)
		if !scope.Valid() {
			return nil, fmt.Errorf("openapi: unknown scope %q", name)
		}
		if !seen[scope] {
			seen[scope] = true
			out = append(out, scope)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func buildInfo(info Info) map[string]any {
	out := map[string]any{
		"title":   info.Title,
		"version": info.Version,
	}
	if info.Description != "" {
		out["description"] = info.Description
	}
	return out
}

func buildPaths(cfg settings) map[string]any {
	statuses := make([]string, 0, len(cfg.responses))
	for status := range cfg.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	responses := make(map[string]any, len(statuses))
	for _, status := range statuses {
		responses[status] = map[string]any{"description": cfg.responses[status]}
	}

	operation := map[string]any{
		"operationId": cfg.operationName(),
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				cfg.contentType: map[string]any{
					"schema": map[string]any{"$ref": componentRef(rootComponent)},
				},
			},
		},
		"responses": responses,
	}
	if cfg.summary != "" {
		operation["summary"] = cfg.summary
	}
	return map[string]any{
		cfg.path: map[string]any{cfg.method: operation},
	}
}

func validateDocument(document map[string]any) error {
	if version, _ := document["openapi"].(string); version == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	for pathKey := range paths {
		if !strings.HasPrefix(pathKey, "/") {
			return fmt.Errorf("openapi: path %q must start with /", pathKey)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	return nil
}
