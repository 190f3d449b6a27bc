package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ibrunner/sageql/client"
	"github.com/ibrunner/sageql/compress"
	"github.com/ibrunner/sageql/config"
	"github.com/ibrunner/sageql/introspection"
	"github.com/ibrunner/sageql/lookup"
	"github.com/ibrunner/sageql/queryvalidator"
	"github.com/ibrunner/sageql/snapshot"
)

const version = "0.3.0"

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if path := ctx.String("config"); path != "" {
		return config.Load(path)
	}

	path, err := config.FindConfigFile(".", config.DefaultFilenames)
	if err != nil {
		return nil, err
	}

	return config.Load(path)
}

var versionCmd = &cli.Command{
	Name:  "version",
	Usage: "print the version",
	Action: func(ctx *cli.Context) error {
		fmt.Println(version)
		return nil
	},
}

var introspectCmd = &cli.Command{
	Name:  "introspect",
	Usage: "fetch the schema from the configured endpoint and save a snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to the configuration file"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(ctx *cli.Context) error {
		logger := newLogger(ctx.Bool("verbose"))

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		if cfg.Endpoint == nil {
			return fmt.Errorf("no endpoint configured")
		}

		gqlclient := client.NewClient(cfg.Endpoint.URL, client.WithHeaders(cfg.Endpoint.Headers))
		doc, err := gqlclient.Introspect(ctx.Context)
		if err != nil {
			return fmt.Errorf("failed to introspect %s: %w", cfg.Endpoint.URL, err)
		}

		path, err := snapshot.Save(cfg.SnapshotDir, doc)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"endpoint": cfg.Endpoint.URL,
			"types":    len(doc.Schema.Types),
			"path":     path,
		}).Info("schema snapshot saved")

		return nil
	},
}

var compressCmd = &cli.Command{
	Name:  "compress",
	Usage: "compress the latest schema snapshot for prompt context",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "snapshot file; defaults to the latest snapshot"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file; defaults to stdout"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(ctx *cli.Context) error {
		logger := newLogger(ctx.Bool("verbose"))

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		var raw []byte
		if input := ctx.String("input"); input != "" {
			raw, err = os.ReadFile(input)
		} else {
			raw, err = snapshot.LatestRaw(cfg.SnapshotDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}

		compressed, err := compress.CompressJSON(raw, cfg.Compress.Options())
		if err != nil {
			return fmt.Errorf("failed to compress schema: %w", err)
		}

		out, err := json.MarshalIndent(compressed, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode compressed schema: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"types":  len(compressed.Types),
			"input":  len(raw),
			"output": len(out),
		}).Debug("schema compressed")

		if output := ctx.String("output"); output != "" {
			return os.WriteFile(output, out, 0o644)
		}
		fmt.Println(string(out))

		return nil
	},
}

var lookupCmd = &cli.Command{
	Name:  "lookup",
	Usage: "run a batch of lookup requests against a schema and print the merged response",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		&cli.StringFlag{Name: "schema", Aliases: []string{"s"}, Usage: "schema file (full or compressed); defaults to the latest snapshot"},
		&cli.StringFlag{Name: "requests", Aliases: []string{"r"}, Required: true, Usage: "JSON file with an array of lookup requests"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(ctx *cli.Context) error {
		logger := newLogger(ctx.Bool("verbose"))

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		var raw []byte
		if schemaPath := ctx.String("schema"); schemaPath != "" {
			raw, err = os.ReadFile(schemaPath)
		} else {
			raw, err = snapshot.LatestRaw(cfg.SnapshotDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}

		index, err := buildIndex(raw, cfg.Lookup.Patterns)
		if err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
		index.SetDefaultSearchLimit(cfg.Lookup.SearchLimit)

		requestData, err := os.ReadFile(ctx.String("requests"))
		if err != nil {
			return fmt.Errorf("failed to read requests: %w", err)
		}
		requests, err := lookup.ParseRequests(requestData)
		if err != nil {
			return fmt.Errorf("failed to parse requests: %w", err)
		}

		response := index.LookupBatch(requests)

		logger.WithFields(logrus.Fields{
			"batchId":    response.Metadata.BatchID,
			"total":      response.Metadata.Summary.Total,
			"failed":     response.Metadata.Summary.Failed,
			"hasPartial": response.Metadata.Summary.HasPartialResults,
		}).Info("lookup batch processed")

		for _, requestError := range response.Metadata.Errors {
			logger.WithFields(logrus.Fields{
				"batchId": response.Metadata.BatchID,
				"request": requestError.Request.String(),
				"error":   requestError.Message,
			}).Warn("lookup request failed")
		}

		out, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Println(string(out))

		return nil
	},
}

// buildIndex detects the schema form: the full introspection envelope is
// tried first, then the compressed shape.
func buildIndex(raw []byte, patterns []lookup.Pattern) (*lookup.Index, error) {
	if doc, err := introspection.ParseDocument(raw); err == nil {
		return lookup.NewFullIndex(doc)
	}

	schema, err := compress.ParseSchema(raw)
	if err != nil {
		return nil, err
	}

	return lookup.NewCompressedIndex(schema, patterns...)
}

var validateCmd = &cli.Command{
	Name:  "validate",
	Usage: "validate a GraphQL query file against the latest schema snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}},
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Required: true, Usage: "file containing the query to validate"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(ctx *cli.Context) error {
		logger := newLogger(ctx.Bool("verbose"))

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		doc, err := snapshot.LatestDocument(cfg.SnapshotDir)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		schema, err := queryvalidator.BuildSchema(doc)
		if err != nil {
			return fmt.Errorf("failed to build schema: %w", err)
		}

		queryData, err := os.ReadFile(ctx.String("query"))
		if err != nil {
			return fmt.Errorf("failed to read query: %w", err)
		}

		queryDocument, errs := queryvalidator.Validate(schema, string(queryData))
		if len(errs) > 0 {
			for _, validationErr := range errs {
				logger.WithField("error", validationErr.Message).Error("query invalid")
			}

			return fmt.Errorf("query validation failed with %d error(s)", len(errs))
		}

		if _, err := queryvalidator.QueryDocumentsByOperations(schema, queryDocument.Operations); err != nil {
			return fmt.Errorf("operation validation failed: %w", err)
		}

		logger.WithField("operations", len(queryDocument.Operations)).Info("query valid")

		return nil
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "sageql"
	app.Description = "Schema compression and lookup tooling for LLM-driven GraphQL query generation"
	app.Usage = "compress GraphQL schemas and answer indexed lookups over them"
	app.Commands = []*cli.Command{
		versionCmd,
		introspectCmd,
		compressCmd,
		lookupCmd,
		validateCmd,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprint(os.Stderr, err.Error()+"\n")
		os.Exit(1)
	}
}
