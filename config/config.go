// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// Package config implements the logic for instantiating the
// conllx-util runtime configuration from the environment.
package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Backend represents the possible storage backend types
type Backend int

const (
	// Local means plain local files and standard streams, without a
	// storage backend.
	Local = iota
	FileSystem
	S3
	GCS
)

// Config holds the conllx-util configuration options.
type Config struct {
	Backend Backend // Storage backend for corpora
}

func FromEnv() (Config, error) {
	var b Backend
	switch os.Getenv("CONLLX_STORAGE_BACKEND") {
	case "":
		b = Local
	case "filesystem":
		b = FileSystem
	case "s3":
		b = S3
	case "gcs":
		b = GCS
	default:
		log.WithField("values", []string{
			"filesystem", "s3", "gcs",
		}).Fatal("unknown CONLLX_STORAGE_BACKEND")
	}

	return Config{
		Backend: b,
	}, nil
}
