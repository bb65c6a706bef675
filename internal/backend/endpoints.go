// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/url"
	"strings"
)

// Endpoints contains REST API endpoint paths. Paths containing {id} are
// expanded with the escaped task id.
type Endpoints struct {
	Lint       string `json:"lint"`        // e.g., "/api/v1/lint"
	Dev        string `json:"dev"`         // e.g., "/api/v1/dev"
	DevHistory string `json:"dev_history"` // e.g., "/api/v1/dev/{id}/history"
	DevStatus  string `json:"dev_status"`  // e.g., "/api/v1/dev/{id}"
}

// DefaultEndpoints returns the paths served by the April backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Lint:       "/api/v1/lint",
		Dev:        "/api/v1/dev",
		DevHistory: "/api/v1/dev/{id}/history",
		DevStatus:  "/api/v1/dev/{id}",
	}
}

// withID expands {id} in path.
func withID(path, id string) string {
	return strings.ReplaceAll(path, "{id}", url.PathEscape(id))
}

// Wire names shared by both transports.
const (
	grpcService   = "/april.v1.TaskService/"
	methodLint    = grpcService + "Lint"
	methodSubmit  = grpcService + "SubmitDev"
	methodFollow  = grpcService + "FollowDev"
	methodStatus  = grpcService + "DevStatus"
	requestIDKey  = "x-request-id"
	requestIDHTTP = "X-Request-ID"
	authorization = "authorization"
	bearerPrefix  = "Bearer "
)
