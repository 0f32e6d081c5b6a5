package openapi

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks doc against the OpenAPI document model: references must
// resolve, and every path parameter must be declared.
func Validate(ctx context.Context, doc *Document) error {
	data, err := doc.JSON()
	if err != nil {
		return err
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	t, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("openapi: load: %w", err)
	}
	if err := t.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}
