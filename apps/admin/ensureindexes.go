package main

import (
	"context"
	"errors"
	"time"

	"github.com/darasahub/darasa/storage/mongodb"
)

var errNoDatabase = errors.New("no database connection")

func (cli *commandLine) ensureIndexes() error {
	if cli.db == nil {
		return errNoDatabase
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return mongodb.EnsureIndexes(ctx, cli.db)
}
