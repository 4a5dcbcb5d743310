package api

// Regenerate api.gen.go after editing api-spec.yaml:
//
//	go generate ./pkg/api

//go:generate go tool oapi-codegen --config=codegen.yaml api-spec.yaml
