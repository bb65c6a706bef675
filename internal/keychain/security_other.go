// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

var errNoSecurityTool = errors.New("security backend only available on macOS")

// securityBackend is never constructed outside macOS; the keyring library
// serves every other platform.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) { return nil, errNoSecurityTool }

func (*securityBackend) Set(string, string) error   { return errNoSecurityTool }
func (*securityBackend) Get(string) (string, error) { return "", errNoSecurityTool }
func (*securityBackend) Delete(string) error        { return errNoSecurityTool }
