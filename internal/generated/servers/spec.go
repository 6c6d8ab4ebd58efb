package servers

import (
	"fmt"

	"orderflow/api"

	"github.com/getkin/kin-openapi/openapi3"
)

// GetSwagger returns the parsed OpenAPI document the handlers were generated from.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("error validating Swagger: %w", err)
	}
	return swagger, nil
}
