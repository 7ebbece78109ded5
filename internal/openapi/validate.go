// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mahabubx7/terry/pkg/types"
)

// Load parses a document with kin-openapi, resolving local references.
func Load(doc *types.OpenAPI) (*openapi3.T, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	t, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return t, nil
}

// Validate checks that doc is a valid OpenAPI 3 document.
func Validate(ctx context.Context, doc *types.OpenAPI) error {
	t, err := Load(doc)
	if err != nil {
		return err
	}
	if err := t.Validate(ctx); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}
