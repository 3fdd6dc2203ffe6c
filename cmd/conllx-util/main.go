// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// The conllx-util tool applies the pseudo-projective transformation to
// treebank corpora in the CoNLL-X tabular format.
//
// Corpora are read from and written to local files (or standard
// streams) by default. With CONLLX_STORAGE_BACKEND configured, the
// input and output arguments are keys in the configured storage
// backend instead, so that corpora can be transformed in place on
// shared storage.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tvl-fyi/conllx"
	"github.com/tvl-fyi/conllx/config"
	"github.com/tvl-fyi/conllx/logs"
	"github.com/tvl-fyi/conllx/proj"
	"github.com/tvl-fyi/conllx/storage"
)

// This variable will be initialised during the build process.
var version string = "devel"

type transform func(conllx.Sentence) (conllx.Sentence, error)

func storageBackend(cfg config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case config.FileSystem:
		return storage.NewFSBackend()
	case config.S3:
		return storage.NewS3Backend()
	case config.GCS:
		return storage.NewGCSBackend()
	}

	return nil, nil
}

// transformCorpus streams sentences from in to out, applying the
// transformation to each. It returns the number of sentences written.
func transformCorpus(t transform, in io.Reader, out io.Writer) (int, error) {
	reader := conllx.NewReader(in)
	writer := conllx.NewWriter(out)

	sentences := 0
	for {
		sentence, err := reader.ReadSentence()
		if err == io.EOF {
			return sentences, nil
		}
		if err != nil {
			return sentences, err
		}

		transformed, err := t(sentence)
		if err != nil {
			return sentences, fmt.Errorf("sentence %d: %w", sentences+1, err)
		}

		if err := writer.WriteSentence(transformed); err != nil {
			return sentences, err
		}

		sentences++
	}
}

// run resolves the input and output arguments and feeds them through
// transformCorpus. An empty argument means the corresponding standard
// stream.
func run(t transform, backend storage.Backend, input, output string) error {
	ctx := context.Background()

	var in io.Reader = os.Stdin
	if input != "" {
		var (
			r   io.ReadCloser
			err error
		)

		if backend != nil {
			r, err = backend.Fetch(ctx, input)
		} else {
			r, err = os.Open(input)
		}
		if err != nil {
			return err
		}
		defer r.Close()

		in = r
	}

	if output == "" {
		sentences, err := transformCorpus(t, in, os.Stdout)
		if err != nil {
			return err
		}

		log.WithField("sentences", sentences).Info("transformed corpus")
		return nil
	}

	if backend != nil {
		sentences, size, err := backend.Persist(ctx, output, func(w io.Writer) (int, error) {
			return transformCorpus(t, in, w)
		})
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"backend":   backend.Name(),
			"key":       output,
			"sentences": sentences,
			"bytes":     size,
		}).Info("transformed corpus")
		return nil
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	sentences, err := transformCorpus(t, in, f)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"output":    output,
		"sentences": sentences,
	}).Info("transformed corpus")

	return nil
}

func transformCommand(use, short string, t transform, backend storage.Backend) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [input] [output]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input, output string
			if len(args) > 0 {
				input = args[0]
			}
			if len(args) > 1 {
				output = args[1]
			}

			return run(t, backend, input, output)
		},
	}
}

func main() {
	logs.Init(version)

	cfg, err := config.FromEnv()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	backend, err := storageBackend(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialise storage backend")
	}

	if backend != nil {
		log.WithField("backend", backend.Name()).Info("initialised storage backend")
	}

	projectivizer := proj.NewHeadProjectivizer()

	rootCmd := &cobra.Command{
		Use:           "conllx-util",
		Short:         "Transform CoNLL-X dependency treebanks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(transformCommand(
		"projectivize",
		"Projectivize the dependency trees of a corpus",
		projectivizer.Projectivize,
		backend,
	))

	rootCmd.AddCommand(transformCommand(
		"deprojectivize",
		"Invert the pseudo-projective transformation of a corpus",
		projectivizer.Deprojectivize,
		backend,
	))

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("transformation failed")
	}
}
