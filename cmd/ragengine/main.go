// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ragengine",
		Usage: "Document chunking and embedding worker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"RAGENGINE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a dotenv file; ignored when missing",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error); overrides log.level",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Set log format (text, json, pretty); overrides log.format",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run pipeline cycles until interrupted",
				Action: runCommand,
			},
			{
				Name:   "once",
				Usage:  "Run a single pipeline cycle and exit",
				Action: onceCommand,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Action: migrateCommand,
			},
			{
				Name:   "status",
				Usage:  "Print document and chunk backlog counts",
				Action: statusCommand,
			},
			{
				Name:   "requeue-documents",
				Usage:  "Clear failure markers so failed documents are parsed again",
				Action: requeueDocumentsCommand,
				Flags:  []cli.Flag{datasetFlag()},
			},
			{
				Name:   "requeue-chunks",
				Usage:  "Reset chunks that were skipped without an embedding",
				Action: requeueChunksCommand,
				Flags:  []cli.Flag{datasetFlag()},
			},
			{
				Name:      "import",
				Usage:     "Add files as unprocessed documents",
				ArgsUsage: "FILE...",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "dataset-id",
						Usage: "Existing dataset to add documents to; when unset a provider and dataset are created",
					},
					&cli.StringFlag{
						Name:  "dataset-name",
						Usage: "Name of the created dataset",
						Value: "default",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service base URL for the created provider",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name for the created provider",
					},
					&cli.StringFlag{
						Name:    "embedding-api-key",
						Usage:   "API key for the created provider",
						EnvVars: []string{"RAGENGINE_EMBEDDING_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "combine-under-n-chars",
						Usage: "Merge segments shorter than this many characters",
						Value: 500,
					},
					&cli.IntFlag{
						Name:  "new-after-n-chars",
						Usage: "Start a new segment after this many characters",
						Value: 1500,
					},
					&cli.BoolFlag{
						Name:  "multipage-sections",
						Usage: "Allow segments to span pages",
						Value: true,
					},
				},
			},
		},
	}
}

func datasetFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "dataset",
		Usage: "Limit to one dataset ID; 0 means every dataset",
	}
}
