// Package sdk opens the metadata store and API clients the commands share,
// configured from the environment.
package sdk

import (
	"github.com/caesium-cloud/dolphin/pkg/db"
	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/meta"
	"github.com/caesium-cloud/dolphin/pkg/web"
)

// Meta connects to the configured metadata store.
func Meta() (*meta.SDK, error) {
	conn, err := db.Connection()
	if err != nil {
		return nil, err
	}
	return meta.New(
		db.NewStore(conn),
		meta.WithBatchSize(env.Variables().BatchSize),
		meta.WithConcurrency(env.Variables().Concurrency),
	), nil
}

// Web returns a management API client.
func Web() (*web.SDK, error) {
	cfg, err := web.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return web.New(web.NewClient(cfg)), nil
}
