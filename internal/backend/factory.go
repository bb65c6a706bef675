// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// New creates a backend API implementation for apiURL.
// http:// and https:// select the REST transport, grpc:// a plaintext gRPC
// connection and grpcs:// a TLS one (port 443 when none is given).
func New(apiURL, apiKey string, log *zap.Logger) (API, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: missing host", apiURL)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTP(apiURL, apiKey, DefaultEndpoints(), log), nil
	case "grpc":
		conn, err := grpc.NewClient(u.Host, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, err
		}
		return NewGRPC(conn, apiKey, log), nil
	case "grpcs":
		host, target := grpcTarget(u.Host)
		creds := credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
		conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
		if err != nil {
			return nil, err
		}
		return NewGRPC(conn, apiKey, log), nil
	default:
		return nil, fmt.Errorf("unsupported api url scheme %q (want http, https, grpc or grpcs)", u.Scheme)
	}
}

// grpcTarget derives the TLS server name and adds the default port if missing.
func grpcTarget(addr string) (host, target string) {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h, addr
	}
	return addr, net.JoinHostPort(addr, "443")
}
