// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// securityBackend stores generic passwords with the macOS security tool. The
// item's account is ServiceName and its service is the key.
type securityBackend struct {
	bin string
}

func newSecurityBackend() (*securityBackend, error) {
	bin, err := exec.LookPath("security")
	if err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{bin: bin}, nil
}

// run executes one security subcommand for key. A missing item is ErrNotFound.
func (s *securityBackend) run(sub, key string, extra ...string) (string, error) {
	args := append([]string{sub, "-a", ServiceName, "-s", key}, extra...)
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(s.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "could not be found") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("security %s %q: %s: %w", sub, key, msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (s *securityBackend) Set(key, value string) error {
	_, err := s.run("add-generic-password", key, "-U", "-w", value)
	return err
}

func (s *securityBackend) Get(key string) (string, error) {
	return s.run("find-generic-password", key, "-w")
}

func (s *securityBackend) Delete(key string) error {
	_, err := s.run("delete-generic-password", key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
