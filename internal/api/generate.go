// Package api holds the HTTP wire types generated from api/openapi.yaml.
package api

//go:generate go tool oapi-codegen -config cfg.yaml ../../api/openapi.yaml
