package main

import (
	"context"
	"log"
	"os"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/storage/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := mongodb.Open(conf)
	errAndDie(err)
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Printf("disconnecting database: %v", err)
		}
	}()

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: mongodb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
